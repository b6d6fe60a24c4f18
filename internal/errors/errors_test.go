package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_KeepsSentinelIdentity(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := Wrap(ErrExchangeFailed, cause)

	assert.True(t, stdErrors.Is(err, ErrExchangeFailed))
	assert.False(t, stdErrors.Is(err, ErrProfileFetchFailed))
	assert.True(t, stdErrors.Is(err, cause))

	var typed TypedError
	require.True(t, stdErrors.As(err, &typed))
	assert.Equal(t, http.StatusUnauthorized, typed.Status())
	assert.Equal(t, ErrorTypeProvider, typed.ErrorType())
	assert.Contains(t, err.Error(), "dial tcp: refused")
}

func TestWrap_PlainSentinel(t *testing.T) {
	sentinel := stdErrors.New("plain")
	err := Wrap(sentinel, fmt.Errorf("cause"))
	assert.True(t, stdErrors.Is(err, sentinel))
}

func TestInternalServerError(t *testing.T) {
	err := InternalServerError("failed to load user %d", 42)

	var typed TypedError
	require.True(t, stdErrors.As(err, &typed))
	assert.Equal(t, http.StatusInternalServerError, typed.Status())
	assert.Equal(t, ErrorTypeInternalServerError, typed.ErrorType())
	assert.Contains(t, err.Error(), "failed to load user 42")
}
