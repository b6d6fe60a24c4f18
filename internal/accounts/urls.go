// Package accounts declares the URL patterns of the accounts application.
package accounts

import (
	"github.com/abisalde/accounts-service/internal/routes"
)

const (
	AppName            = "accounts"
	SocialLoginPattern = "oauth/login/"
)

// URLPatterns maps oauth/login/ to the social login view. The route is unnamed,
// so it resolves by path only.
func URLPatterns(socialLogin routes.View) routes.Namespace {
	return routes.Namespace{
		Name: AppName,
		Routes: []routes.Route{
			routes.Path(SocialLoginPattern, socialLogin),
		},
	}
}
