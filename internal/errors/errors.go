package errors

import "net/http"

var (
	ErrInvalidInput = NewTypedError(
		"Invalid Request", "Please check your request and try again",
		ErrorTypeInvalidInput, http.StatusBadRequest)
	ErrUnsupportedProvider = NewTypedError(
		"Invalid Provider", "We couldn't find the provider at this time",
		ErrorTypeBadRequest, http.StatusBadRequest)
	ErrInvalidState = NewTypedError(
		"Invalid CSRF state", "Authentication failed. Please try again.",
		ErrorTypeBadRequest, http.StatusBadRequest)
	ErrStateExpired = NewTypedError(
		"Time Elapsed", "We couldn't complete your authentication at this time, please try again",
		ErrorTypeBadRequest, http.StatusBadRequest)
	ErrExchangeFailed = NewTypedError(
		"Authentication Exchange failed", "We couldn't complete your authentication at this time",
		ErrorTypeProvider, http.StatusUnauthorized)
	ErrAccessTokenRejected = NewTypedError(
		"Access token rejected", "This sign-in token was not issued for this application",
		ErrorTypeUnauthenticated, http.StatusUnauthorized)
	ErrProfileFetchFailed = NewTypedError(
		"User Profile fetching failed", "We could not find this user at this time, please try again",
		ErrorTypeProvider, http.StatusUnauthorized)
	ErrEmailRequired = NewTypedError(
		"Email Required", "Your provider account has no email address we can use",
		ErrorTypeInvalidInput, http.StatusBadRequest)
	ErrUserNotFound = NewTypedError(
		"User not found", "No account is linked to this provider identity",
		ErrorTypeNotFound, http.StatusNotFound)
	ErrEmailExists = NewTypedError(
		"Email exists", "User with email address already exist, Please try with a different email address",
		ErrorTypeEmailExists, http.StatusConflict)
	ErrTokenGeneration = NewTypedError(
		"Something went wrong", "There's an error generating token, please try again",
		ErrorTypeToken, http.StatusInternalServerError)
	ErrJWTSecretNotConfigured = NewTypedError(
		"Token configuration", "JWT secret not configured",
		ErrorTypeToken, http.StatusInternalServerError)
	ErrInvalidToken = NewTypedError(
		"Invalid token", "Invalid token header",
		ErrorTypeUnauthenticated, http.StatusUnauthorized)
	ErrExpiredToken = NewTypedError(
		"Expired token", "Expired token",
		ErrorTypeUnauthenticated, http.StatusUnauthorized)
	ErrInvalidTokenType = NewTypedError(
		"Invalid token type", "Invalid token type",
		ErrorTypeToken, http.StatusUnauthorized)
	ErrRateLimitExceeded = NewTypedError(
		"Too Many Requests", "Too many attempts. Please try again later.",
		ErrorTypeRateLimited, http.StatusTooManyRequests)
	ErrSomethingWentWrong = NewTypedError(
		"Something went wrong", "Something went wrong! Please try again",
		ErrorTypeInternalServerError, http.StatusInternalServerError)
)
