package domain

import "errors"

// Auth errors. The HTTP edge answers 401 for all of them.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrRefreshNotFound      = errors.New("refresh session not found")
	ErrRefreshReuseDetected = errors.New("refresh token reuse detected")
	ErrRefreshExpired       = errors.New("refresh token expired")
	ErrRefreshInvalid       = errors.New("refresh token invalid")
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrValidation       = errors.New("validation")
)

func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrRefreshNotFound) ||
		errors.Is(err, ErrRefreshReuseDetected) ||
		errors.Is(err, ErrRefreshExpired) ||
		errors.Is(err, ErrRefreshInvalid)
}

// IsRefreshError reports the four failures after which the client must re-login.
func IsRefreshError(err error) bool {
	return errors.Is(err, ErrRefreshNotFound) ||
		errors.Is(err, ErrRefreshReuseDetected) ||
		errors.Is(err, ErrRefreshExpired) ||
		errors.Is(err, ErrRefreshInvalid)
}
