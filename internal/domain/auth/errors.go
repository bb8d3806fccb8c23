package auth

import "errors"

var (
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrInvalidToken               = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked        = errors.New("refresh token has been revoked")
	ErrRefreshTokenCookieNotFound = errors.New("refresh token cookie not found")
	ErrUserNotFound               = errors.New("user not found")
	ErrGoogleAccountNotLinked     = errors.New("no account is registered for this Google email")
	ErrGoogleLoginDisabled        = errors.New("google sign-in is not configured")
	ErrStateMismatch              = errors.New("oauth state mismatch")
	ErrTooManyRequests            = errors.New("too many requests")
)
