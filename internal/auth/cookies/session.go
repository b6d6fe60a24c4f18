package cookies

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	BrowserSessionTokenName = "accounts_service_session_token"
	BrowserAccessTokenName  = "accounts_service_access_token"
	OAuthStateCookieName    = "accounts_service_oauth_state"
)

const OAuthStateCookieTTL = 11 * time.Minute

func CreateBrowserSession(generatedTokens TokenPair, ctx *fiber.Ctx, secure bool) {
	site := fiber.CookieSameSiteLaxMode
	if !secure {
		site = fiber.CookieSameSiteStrictMode
	}

	refreshTokenExpiration := time.Now().Add(RefreshTokenExpiry)
	accessTokenExpiration := time.Now().Add(LoginAccessTokenExpiry)

	ctx.Cookie(&fiber.Cookie{
		Secure:   secure,
		HTTPOnly: true,
		Expires:  refreshTokenExpiration,
		Name:     BrowserSessionTokenName,
		Value:    generatedTokens.RefreshToken,
		SameSite: site,
		Path:     "/",
		MaxAge:   int(RefreshTokenExpiry.Seconds()),
	})

	ctx.Cookie(&fiber.Cookie{
		Secure:   secure,
		HTTPOnly: true,
		Expires:  accessTokenExpiration,
		Name:     BrowserAccessTokenName,
		Value:    generatedTokens.AccessToken,
		SameSite: site,
		Path:     "/",
		MaxAge:   int(LoginAccessTokenExpiry.Seconds()),
	})
}

func SetOAuthStateCookie(ctx *fiber.Ctx, stateUUID string, secure bool) {
	ctx.Cookie(&fiber.Cookie{
		Secure:   secure,
		Name:     OAuthStateCookieName,
		Value:    stateUUID,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(OAuthStateCookieTTL.Seconds()),
	})
}

func ClearOAuthStateCookie(ctx *fiber.Ctx, secure bool) {
	ctx.Cookie(&fiber.Cookie{
		Secure:   secure,
		Name:     OAuthStateCookieName,
		Value:    "",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
