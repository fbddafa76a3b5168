package authcore

import "errors"

var (
	// ErrUnauthorized is returned by Validate for any token that fails
	// verification: malformed, forged, expired, or blacklisted. Callers
	// must not be able to distinguish revoked from expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned by Login when the username is
	// unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRateLimited is returned by Login while the origin address is
	// throttled or locked out.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrRefreshInvalid is returned by Refresh for an unknown, expired, or
	// already-rotated refresh token.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrTokenInvalid is returned by the identity-extraction helpers for
	// tokens that fail structural or signature checks.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrEngineNotReady is returned when an Engine method is called on an
	// incompletely constructed engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
