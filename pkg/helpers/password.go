package helpers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Password hashing uses Argon2i with the parameters every stored hash in the
// user directory was produced with. Changing them would break verification of
// existing accounts, so treat them as frozen.
const (
	argonMemory  = 64 * 1024 // KiB
	argonTime    = 10        // iterations
	argonThreads = 4         // parallel lanes
	argonKeyLen  = 32        // digest length in bytes
	argonSaltLen = 16        // random salt length in bytes
)

var (
	// ErrMalformedHash is returned by VerifyPassword when the stored string is
	// not a well-formed argon2i encoding. Callers treat it as a failed
	// verification, not an infrastructure failure.
	ErrMalformedHash = errors.New("malformed password hash")

	// ErrHashUnsupported is returned when the stored hash is well-formed but
	// was produced by an argon2 version this build cannot recompute. Unlike a
	// malformed hash this is an operational problem, not a wrong password.
	ErrHashUnsupported = errors.New("unsupported password hash version")
)

// HashPassword derives an Argon2i digest of password under a fresh random
// salt and returns it in the self-describing PHC string form
// $argon2i$v=19$m=65536,t=10,p=4$<salt>$<digest>. Because the salt and the
// parameters travel inside the string, VerifyPassword needs nothing else.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.Key([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf(
		"$argon2i$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// VerifyPassword recomputes the digest described by encoded and compares it
// against password in constant time. It returns (false, ErrMalformedHash) for
// strings that cannot be decoded and (false, ErrHashUnsupported) for an
// incompatible argon2 version.
func VerifyPassword(encoded, password string) (bool, error) {
	salt, digest, time, memory, threads, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.Key([]byte(password), salt, time, memory, threads, uint32(len(digest)))
	return subtle.ConstantTimeCompare(computed, digest) == 1, nil
}

func decodeHash(encoded string) (salt, digest []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	if parts[1] != "argon2i" {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	if version != argon2.Version {
		return nil, nil, 0, 0, 0, ErrHashUnsupported
	}

	var lanes uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &lanes); err != nil {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	// argon2.Key panics on zero time/threads and lanes must fit in uint8.
	if time == 0 || lanes == 0 || lanes > 255 {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	digest, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(digest) == 0 {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}

	return salt, digest, time, memory, uint8(lanes), nil
}
