package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

const (
	GoogleTokenInfoURL   = "https://oauth2.googleapis.com/tokeninfo"
	FacebookDebugURL     = "https://graph.facebook.com/debug_token"
	GithubTokenCheckURL  = "https://api.github.com/applications/{client_id}/token"
	githubClientIDMarker = "{client_id}"
)

// CheckGoogleAudience asks tokeninfo who the token was issued to.
func CheckGoogleAudience(ctx context.Context, p *Provider, accessToken string) error {
	endpoint := p.TokenInfoURL + "?" + url.Values{"access_token": {accessToken}}.Encode()

	var info struct {
		Aud string `json:"aud"`
		Azp string `json:"azp"`
	}
	err := getJSON(ctx, oauth2.NewClient(ctx, nil), endpoint, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&info)
	})
	if err != nil {
		return fmt.Errorf("tokeninfo: %w", err)
	}
	if info.Aud != p.Config.ClientID && info.Azp != p.Config.ClientID {
		return ErrAudienceMismatch
	}
	return nil
}

// CheckFacebookAudience inspects the token with the app access token "id|secret".
func CheckFacebookAudience(ctx context.Context, p *Provider, accessToken string) error {
	endpoint := p.TokenInfoURL + "?" + url.Values{
		"input_token":  {accessToken},
		"access_token": {p.Config.ClientID + "|" + p.Config.ClientSecret},
	}.Encode()

	var debug struct {
		Data struct {
			AppID   string `json:"app_id"`
			IsValid bool   `json:"is_valid"`
		} `json:"data"`
	}
	err := getJSON(ctx, oauth2.NewClient(ctx, nil), endpoint, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&debug)
	})
	if err != nil {
		return fmt.Errorf("debug_token: %w", err)
	}
	if !debug.Data.IsValid {
		return fmt.Errorf("debug_token: token is not valid")
	}
	if debug.Data.AppID != p.Config.ClientID {
		return ErrAudienceMismatch
	}
	return nil
}

// CheckGithubAudience uses the OAuth app token check, which only answers 200 for
// tokens that belong to the calling app.
func CheckGithubAudience(ctx context.Context, p *Provider, accessToken string) error {
	endpoint := strings.Replace(p.TokenInfoURL, githubClientIDMarker, url.PathEscape(p.Config.ClientID), 1)

	payload, err := json.Marshal(map[string]string{"access_token": accessToken})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.SetBasicAuth(p.Config.ClientID, p.Config.ClientSecret)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	response, err := oauth2.NewClient(ctx, nil).Do(req)
	if err != nil {
		return fmt.Errorf("token check request failed: %w", err)
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		return ErrAudienceMismatch
	}
	return fmt.Errorf("token check returned status %d", response.StatusCode)
}
