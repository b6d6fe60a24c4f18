package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/abisalde/accounts-service/internal/model"
	"golang.org/x/oauth2"
)

var (
	ErrAudienceMismatch     = errors.New("access token was issued to another client")
	ErrAudienceUnverifiable = errors.New("provider cannot verify access token audience")
)

// ProfileDecoder turns a provider userinfo response into a normalized profile.
type ProfileDecoder func(body io.Reader) (*model.OAuthUserResponse, error)

// AudienceCheck confirms that an access token obtained outside the code flow was
// issued to this provider's client id.
type AudienceCheck func(ctx context.Context, p *Provider, accessToken string) error

type Provider struct {
	Name         model.OAuthProvider
	Config       *oauth2.Config
	UserInfoURL  string
	UsePKCE      bool
	TokenInfoURL string
	// EmailsURL lists the account's addresses when the userinfo email is private.
	EmailsURL string

	decode        ProfileDecoder
	checkAudience AudienceCheck
}

func New(name model.OAuthProvider, cfg *oauth2.Config, userInfoURL string, usePKCE bool, decode ProfileDecoder) *Provider {
	return &Provider{
		Name:        name,
		Config:      cfg,
		UserInfoURL: userInfoURL,
		UsePKCE:     usePKCE,
		decode:      decode,
	}
}

func (p *Provider) WithAudienceCheck(tokenInfoURL string, check AudienceCheck) *Provider {
	p.TokenInfoURL = tokenInfoURL
	p.checkAudience = check
	return p
}

func (p *Provider) WithEmailsURL(emailsURL string) *Provider {
	p.EmailsURL = emailsURL
	return p
}

func (p *Provider) AuthCodeURL(state, verifier string) string {
	if p.UsePKCE {
		return p.Config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	}
	return p.Config.AuthCodeURL(state)
}

func (p *Provider) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	if p.UsePKCE {
		return p.Config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	}
	return p.Config.Exchange(ctx, code)
}

// VerifyAccessToken rejects tokens that were not issued to this client. Providers
// without an audience check cannot accept client-side tokens at all.
func (p *Provider) VerifyAccessToken(ctx context.Context, accessToken string) error {
	if p.checkAudience == nil || p.TokenInfoURL == "" {
		return fmt.Errorf("%s: %w", p.Name, ErrAudienceUnverifiable)
	}
	if err := p.checkAudience(ctx, p, accessToken); err != nil {
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	return nil
}

func (p *Provider) FetchProfile(ctx context.Context, token *oauth2.Token) (*model.OAuthUserResponse, error) {
	client := p.Config.Client(ctx, token)

	var profile *model.OAuthUserResponse
	err := getJSON(ctx, client, p.UserInfoURL, func(body io.Reader) error {
		var decodeErr error
		profile, decodeErr = p.decode(body)
		return decodeErr
	})
	if err != nil {
		return nil, fmt.Errorf("%s userinfo: %w", p.Name, err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("%s userinfo has no subject id", p.Name)
	}

	if profile.Email == "" && p.EmailsURL != "" {
		email, verified, err := p.fetchPrimaryEmail(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("%s emails: %w", p.Name, err)
		}
		profile.Email, profile.IsEmailVerified = email, verified
	}
	return profile, nil
}

// fetchPrimaryEmail picks the primary verified address, else the first verified one.
func (p *Provider) fetchPrimaryEmail(ctx context.Context, client *http.Client) (string, bool, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	err := getJSON(ctx, client, p.EmailsURL, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&emails)
	})
	if err != nil {
		return "", false, err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, true, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, true, nil
		}
	}
	return "", false, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, decode func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	response, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("returned status %d", response.StatusCode)
	}
	if err := decode(response.Body); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}
