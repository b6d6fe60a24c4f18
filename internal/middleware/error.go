package middleware

import (
	stdErrors "errors"

	customErrors "github.com/abisalde/accounts-service/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// ErrorHandler renders handler errors as {"error","message","code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var typedErr customErrors.TypedError
	if stdErrors.As(err, &typedErr) {
		if typedErr.Status() >= fiber.StatusInternalServerError {
			zap.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		message := typedErr.Error()
		if m, ok := typedErr.(interface{ Message() string }); ok {
			message = m.Message()
		}
		return c.Status(typedErr.Status()).JSON(fiber.Map{
			"error":   typedErr.Title(),
			"message": message,
			"code":    typedErr.ErrorType(),
		})
	}

	var fiberErr *fiber.Error
	if stdErrors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error":   utils.StatusMessage(fiberErr.Code),
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("internal error", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"message": "Something went wrong! Please try again",
		"code":    customErrors.ErrorTypeInternalServerError,
	})
}
