package auth

import "errors"

var (
	// ErrInvalidCredentials covers every login failure: unknown username,
	// wrong password, disabled or blocked account. Callers must not be
	// able to tell which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers every validation failure: malformed token,
	// bad signature, expiry, or an account that is no longer eligible.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbidden means the authenticated user holds none of the roles
	// the operation requires.
	ErrForbidden = errors.New("insufficient role")
)
