package auth

import "errors"

var (
	// ErrConflict is returned by Signup when the email is already registered.
	ErrConflict = errors.New("user already exists")
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingCredential means no refresh cookie was presented.
	ErrMissingCredential = errors.New("no refresh token provided")
	// ErrInvalidCredential covers signature, method and expiry failures.
	ErrInvalidCredential = errors.New("invalid token")
	// ErrRevokedCredential means the presented refresh token is not the stored one.
	ErrRevokedCredential = errors.New("refresh token revoked")
	// ErrRefreshNotFound is returned by RefreshStore.Lookup when no record exists.
	ErrRefreshNotFound = errors.New("refresh token not found")
)

// ValidationError reports malformed signup or login input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
