package model

type OAuthProvider string

const (
	OAuthProviderGoogle   OAuthProvider = "google"
	OAuthProviderFacebook OAuthProvider = "facebook"
	OAuthProviderGithub   OAuthProvider = "github"
)

func (p OAuthProvider) IsValid() bool {
	switch p {
	case OAuthProviderGoogle, OAuthProviderFacebook, OAuthProviderGithub:
		return true
	}
	return false
}

type OAuthPlatform string

const (
	OAuthPlatformWeb    OAuthPlatform = "web"
	OAuthPlatformMobile OAuthPlatform = "mobile"
)

func (p OAuthPlatform) IsValid() bool {
	return p == OAuthPlatformWeb || p == OAuthPlatformMobile
}

// LoginMode selects how a provider identity maps onto a local account.
// The empty mode links to an existing account or creates one.
type LoginMode string

const (
	LoginModeAuto     LoginMode = ""
	LoginModeLogin    LoginMode = "login"
	LoginModeRegister LoginMode = "register"
)

func (m LoginMode) IsValid() bool {
	switch m {
	case LoginModeAuto, LoginModeLogin, LoginModeRegister:
		return true
	}
	return false
}

type OAuthUserResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name,omitempty"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

type SocialLoginInput struct {
	Provider    OAuthProvider `json:"provider"`
	Code        string        `json:"code"`
	State       string        `json:"state"`
	StateKey    string        `json:"stateKey"`
	AccessToken string        `json:"accessToken"`
	Platform    OAuthPlatform `json:"platform"`
	Mode        LoginMode     `json:"mode"`
}

type BeginLoginResponse struct {
	AuthURL  string `json:"authUrl"`
	StateKey string `json:"stateKey,omitempty"`
}

type SocialLoginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         PublicUser `json:"user"`
	Created      bool       `json:"created"`
}
