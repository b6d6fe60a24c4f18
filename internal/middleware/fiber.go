package middleware

import (
	"context"

	"github.com/abisalde/accounts-service/internal/auth"
	"github.com/gofiber/fiber/v2"
)

// RequestContext seeds the user context with the client IP.
func RequestContext(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	c.SetUserContext(auth.WithClientIP(ctx, c.IP()))
	return c.Next()
}
