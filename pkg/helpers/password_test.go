package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	encoded, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	ok, err := VerifyPassword(encoded, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(encoded, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordEncodingShape(t *testing.T) {
	encoded, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2i$v=19$m=65536,t=10,p=4$"),
		"unexpected encoding prefix: %s", encoded)
	assert.Len(t, strings.Split(encoded, "$"), 6)
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPassword("same password")
	require.NoError(t, err)
	b, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two hashes of one password must use distinct salts")

	// both still verify
	for _, enc := range []string{a, b} {
		ok, err := VerifyPassword(enc, "same password")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestVerifyPasswordMalformed(t *testing.T) {
	malformed := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=10,p=4$onlyfourparts",
		"$argon2id$v=19$m=65536,t=10,p=4$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0",        // wrong variant
		"$argon2i$version=19$m=65536,t=10,p=4$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0",   // bad version field
		"$argon2i$v=19$m=65536,t=0,p=4$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0",          // zero iterations
		"$argon2i$v=19$m=65536,t=10,p=0$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0",         // zero lanes
		"$argon2i$v=19$m=65536,t=10,p=300$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0",       // lanes overflow
		"$argon2i$v=19$m=65536,t=10,p=4$!!notbase64!!$ZGlnZXN0ZGlnZXN0",       // bad salt encoding
		"$argon2i$v=19$m=65536,t=10,p=4$c2FsdHNhbHQ$",                         // empty digest
		"$argon2i$v=19$m=65536,t=10,p=4$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0$trailer", // extra part
	}
	for _, enc := range malformed {
		ok, err := VerifyPassword(enc, "whatever")
		assert.ErrorIs(t, err, ErrMalformedHash, "input: %q", enc)
		assert.False(t, ok)
	}
}

func TestVerifyPasswordUnsupportedVersion(t *testing.T) {
	ok, err := VerifyPassword("$argon2i$v=16$m=65536,t=10,p=4$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0", "whatever")
	assert.ErrorIs(t, err, ErrHashUnsupported)
	assert.False(t, ok)
}
