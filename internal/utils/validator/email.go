package validator

import (
	"errors"
	"regexp"
	"strings"

	customErrors "github.com/abisalde/accounts-service/internal/errors"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	ErrInvalidEmail = errors.New("invalid email format")
)

// ValidateEmail rejects empty or malformed provider addresses.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return customErrors.ErrEmailRequired
	}
	if !emailRegex.MatchString(email) {
		return customErrors.Wrap(customErrors.ErrEmailRequired, ErrInvalidEmail)
	}
	return nil
}
