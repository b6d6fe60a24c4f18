package provider

import (
	"sort"

	"github.com/abisalde/accounts-service/internal/configs"
	customErrors "github.com/abisalde/accounts-service/internal/errors"
	"github.com/abisalde/accounts-service/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	FacebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name,first_name,last_name,email"
	GithubUserInfoURL   = "https://api.github.com/user"
	GithubEmailsURL     = "https://api.github.com/user/emails"
)

type Registry map[model.OAuthProvider]*Provider

// NewRegistry enables every provider that has a client id configured.
func NewRegistry(cfg *configs.Config, redirectURL string) Registry {
	r := Registry{}
	p := cfg.Providers

	if p.GoogleClientID != "" {
		r.Register(New(model.OAuthProviderGoogle, &oauth2.Config{
			ClientID:     p.GoogleClientID,
			ClientSecret: p.GoogleClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"email", "profile"},
			Endpoint:     google.Endpoint,
		}, GoogleUserInfoURL, true, DecodeGoogleProfile).
			WithAudienceCheck(GoogleTokenInfoURL, CheckGoogleAudience))
	}

	if p.FBClientID != "" {
		r.Register(New(model.OAuthProviderFacebook, &oauth2.Config{
			ClientID:     p.FBClientID,
			ClientSecret: p.FBClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"email"},
			Endpoint:     facebook.Endpoint,
		}, FacebookUserInfoURL, false, DecodeFacebookProfile).
			WithAudienceCheck(FacebookDebugURL, CheckFacebookAudience))
	}

	if p.GithubClientID != "" {
		r.Register(New(model.OAuthProviderGithub, &oauth2.Config{
			ClientID:     p.GithubClientID,
			ClientSecret: p.GithubClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}, GithubUserInfoURL, true, DecodeGithubProfile).
			WithAudienceCheck(GithubTokenCheckURL, CheckGithubAudience).
			WithEmailsURL(GithubEmailsURL))
	}

	return r
}

func (r Registry) Register(p *Provider) {
	r[p.Name] = p
}

func (r Registry) Lookup(name model.OAuthProvider) (*Provider, error) {
	p, ok := r[name]
	if !ok {
		return nil, customErrors.ErrUnsupportedProvider
	}
	return p, nil
}

func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}
