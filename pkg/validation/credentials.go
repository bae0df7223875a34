package validation

import "regexp"

// Registration input rules. These are the authoritative checks: the HTTP
// binding layer enforces a subset for early rejection, but the service runs
// these regardless of how the request arrived.
var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// ValidationError names the first registration rule a candidate credential
// set failed. It carries no user data beyond the field name.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Field + " " + e.Rule
}

// ValidateCredentials checks registration input against the syntax and length
// rules. It returns nil when every rule holds and a *ValidationError naming
// the first violated rule otherwise. It has no side effects.
func ValidateCredentials(username, email, password string) error {
	if !emailRe.MatchString(email) {
		return &ValidationError{Field: "email", Rule: "must be a valid email address"}
	}
	if !usernameRe.MatchString(username) {
		return &ValidationError{Field: "username", Rule: "must contain only letters, digits and underscore"}
	}
	if len(username) < minUsernameLen {
		return &ValidationError{Field: "username", Rule: "must be at least 3 characters long"}
	}
	if len(password) < minPasswordLen {
		return &ValidationError{Field: "password", Rule: "must be at least 8 characters long"}
	}
	return nil
}
