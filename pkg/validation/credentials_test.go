package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		email     string
		password  string
		wantField string
	}{
		{name: "valid", username: "alice_99", email: "alice@example.com", password: "correcthorse"},
		{name: "minimal valid", username: "bob", email: "b@x.co", password: "12345678"},
		{name: "plus and dots in email local part", username: "carol", email: "c.arol+tag@mail-host.example.org", password: "password1"},

		{name: "email missing at", email: "aliceexample.com", username: "alice", password: "correcthorse", wantField: "email"},
		{name: "email missing domain dot", email: "alice@example", username: "alice", password: "correcthorse", wantField: "email"},
		{name: "email empty", email: "", username: "alice", password: "correcthorse", wantField: "email"},
		{name: "email with space", email: "al ice@example.com", username: "alice", password: "correcthorse", wantField: "email"},

		{name: "username with dash", email: "a@b.co", username: "ali-ce", password: "correcthorse", wantField: "username"},
		{name: "username with space", email: "a@b.co", username: "ali ce", password: "correcthorse", wantField: "username"},
		{name: "username empty", email: "a@b.co", username: "", password: "correcthorse", wantField: "username"},
		{name: "username too short", email: "a@b.co", username: "ab", password: "correcthorse", wantField: "username"},

		{name: "password too short", email: "a@b.co", username: "alice", password: "1234567", wantField: "password"},
		{name: "password empty", email: "a@b.co", username: "alice", password: "", wantField: "password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCredentials(tc.username, tc.email, tc.password)
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestValidateCredentialsEmailCheckedFirst(t *testing.T) {
	// Everything is wrong; the email rule wins.
	err := ValidateCredentials("x", "nope", "short")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "password", Rule: "must be at least 8 characters long"}
	assert.Equal(t, "validation: password must be at least 8 characters long", err.Error())
}
