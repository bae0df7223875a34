package entity

import (
	"time"
)

// User is the durable identity record. PasswordHash holds the encoded argon2i
// string, never a raw password. ID is assigned by the directory on insert and
// immutable afterwards.
type User struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	IsAdmin             bool
	FailedLoginAttempts int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
