package auth

import "errors"

var (
	// ErrAuthentication covers every verification failure (bad signature,
	// expired, wrong issuer). The distinction is logged, never returned.
	ErrAuthentication = errors.New("auth: invalid token")

	// ErrForbiddenDomain means the identity verified but the email is
	// outside the campus domain.
	ErrForbiddenDomain = errors.New("auth: email outside allowed domain")
)
