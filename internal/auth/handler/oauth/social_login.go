package oauth

import (
	"context"
	"fmt"
	"strings"

	"github.com/abisalde/accounts-service/internal/auth"
	"github.com/abisalde/accounts-service/internal/auth/cookies"
	"github.com/abisalde/accounts-service/internal/auth/service"
	"github.com/abisalde/accounts-service/internal/errors"
	"github.com/abisalde/accounts-service/internal/model"
	app_logger "github.com/abisalde/accounts-service/pkg/logger"
	oauthPKCE "github.com/abisalde/accounts-service/pkg/oauth"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SocialLoginService interface {
	Begin(ctx context.Context, input service.BeginInput) (*service.BeginResult, error)
	Complete(ctx context.Context, input service.CompleteInput) (*service.LoginResult, error)
	GetFrontEndRedirectURL(platform model.OAuthPlatform, token, email string) string
}

// SocialLoginView serves oauth/login/.
//
//	GET  without code: start a provider flow and return the authorization URL.
//	GET  with code:    provider redirect; finish the flow and redirect to the client.
//	POST:              finish a flow from a code or a provider access token, respond with tokens.
type SocialLoginView struct {
	oauthService  SocialLoginService
	secureCookies bool
	newStateUUID  func() string
}

func NewSocialLoginView(oauthService SocialLoginService, secureCookies bool) *SocialLoginView {
	return &SocialLoginView{
		oauthService:  oauthService,
		secureCookies: secureCookies,
		newStateUUID:  uuid.NewString,
	}
}

func (v *SocialLoginView) Check() error {
	if v == nil || v.oauthService == nil {
		return fmt.Errorf("social login view has no oauth service")
	}
	return nil
}

func (v *SocialLoginView) Methods() []string {
	return []string{fiber.MethodGet, fiber.MethodPost}
}

func (v *SocialLoginView) Dispatch(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodGet:
		if c.Query("code") != "" || c.Query("error") != "" {
			return v.callback(c)
		}
		return v.begin(c)
	case fiber.MethodPost:
		return v.login(c)
	}
	return fiber.ErrMethodNotAllowed
}

func (v *SocialLoginView) begin(c *fiber.Ctx) error {
	platform := model.OAuthPlatform(strings.ToLower(c.Query("platform", string(model.OAuthPlatformWeb))))
	input := service.BeginInput{
		Provider:  model.OAuthProvider(strings.ToLower(c.Query("provider"))),
		Platform:  platform,
		Mode:      model.LoginMode(strings.ToLower(c.Query("mode"))),
		StateUUID: v.newStateUUID(),
	}
	app_logger.LogOAuthRequest(string(input.Provider), string(platform), clientIP(c))

	res, err := v.oauthService.Begin(c.UserContext(), input)
	if err != nil {
		return err
	}

	response := model.BeginLoginResponse{AuthURL: res.AuthURL}
	switch platform {
	case model.OAuthPlatformMobile:
		response.StateKey = res.StateUUID
	case model.OAuthPlatformWeb:
		c.Set("Cross-Origin-Opener-Policy", "same-origin-allow-popups")
		cookies.SetOAuthStateCookie(c, res.StateUUID, v.secureCookies)
	}

	return c.JSON(response)
}

func (v *SocialLoginView) callback(c *fiber.Ctx) error {
	if providerErr := c.Query("error"); providerErr != "" {
		return errors.Wrap(errors.ErrExchangeFailed, fiber.NewError(fiber.StatusUnauthorized, providerErr))
	}

	state := c.Query("state")
	expected := c.Cookies(cookies.OAuthStateCookieName)
	if expected == "" {
		// Mobile flows run in a system browser without our cookie; the single-use
		// verifier stored under the state uuid is the proof of origin.
		if decoded, err := oauthPKCE.DecodeState(state); err == nil && decoded.Platform == model.OAuthPlatformMobile {
			expected = decoded.UUID
		}
	}

	result, err := v.oauthService.Complete(c.UserContext(), service.CompleteInput{
		Code:              c.Query("code"),
		State:             state,
		ExpectedStateUUID: expected,
	})
	if err != nil {
		return err
	}

	if result.Platform == model.OAuthPlatformWeb {
		cookies.ClearOAuthStateCookie(c, v.secureCookies)
		cookies.CreateBrowserSession(result.Tokens, c, v.secureCookies)
		c.Set("Cross-Origin-Opener-Policy", "same-origin-allow-popups")
	}

	redirectURL := v.oauthService.GetFrontEndRedirectURL(result.Platform, result.Tokens.AccessToken, result.User.Email)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (v *SocialLoginView) login(c *fiber.Ctx) error {
	var input model.SocialLoginInput
	if err := c.BodyParser(&input); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err)
	}

	platform := model.OAuthPlatform(strings.ToLower(string(input.Platform)))
	if platform == "" {
		platform = model.OAuthPlatformWeb
	}

	// stateKey stands in for the cookie only on mobile states; web states must match the cookie.
	expected := c.Cookies(cookies.OAuthStateCookieName)
	if decoded, err := oauthPKCE.DecodeState(input.State); err == nil && decoded.Platform == model.OAuthPlatformMobile {
		expected = input.StateKey
	}

	result, err := v.oauthService.Complete(c.UserContext(), service.CompleteInput{
		Provider:          model.OAuthProvider(strings.ToLower(string(input.Provider))),
		Platform:          platform,
		Mode:              model.LoginMode(strings.ToLower(string(input.Mode))),
		Code:              input.Code,
		State:             input.State,
		ExpectedStateUUID: expected,
		AccessToken:       input.AccessToken,
	})
	if err != nil {
		return err
	}

	if result.Platform == model.OAuthPlatformWeb {
		if input.Code != "" {
			cookies.ClearOAuthStateCookie(c, v.secureCookies)
		}
		cookies.CreateBrowserSession(result.Tokens, c, v.secureCookies)
	}

	return c.JSON(model.SocialLoginResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		User:         result.User.Public(),
		Created:      result.Created,
	})
}

func clientIP(c *fiber.Ctx) string {
	if ip := auth.GetIPFromContext(c.UserContext()); ip != "" {
		return ip
	}
	return c.IP()
}
