package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. The same error covers an
	// unknown email and a wrong password so responses cannot be used to probe
	// which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail indicates a registration conflict.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrForbidden indicates a valid principal lacking the required role.
	ErrForbidden = errors.New("forbidden")
)
