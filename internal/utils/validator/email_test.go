package validator

import (
	"testing"

	customErrors "github.com/abisalde/accounts-service/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ada@example.com"))
	assert.NoError(t, ValidateEmail(" Ada.Lovelace+oauth@Example.Technology "))

	for _, email := range []string{"", "   ", "ada", "ada@", "@example.com", "ada@example"} {
		assert.ErrorIs(t, ValidateEmail(email), customErrors.ErrEmailRequired, email)
	}
	assert.ErrorIs(t, ValidateEmail("ada@example"), ErrInvalidEmail)
}
