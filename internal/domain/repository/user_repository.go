package repository

import (
	"context"
	"errors"

	"github.com/ankicc/backend/internal/domain/entity"
)

var (
	// ErrNotFound means the lookup completed but matched no user. Callers
	// must distinguish it from infrastructure failures.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicate means an insert hit the storage-layer uniqueness
	// constraint on username or email. The constraint, not the service-level
	// pre-check, is the actual uniqueness guarantee: two concurrent
	// registrations can both pass the pre-checks.
	ErrDuplicate = errors.New("username or email already taken")
)

// UserRepository is the user directory consumed by the authentication
// service: equality lookups on the unique fields plus an atomic counter
// update keyed by the immutable id.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetByIdentifier matches either username or email against identifier.
	GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	// SetFailedLoginAttempts overwrites the counter for the given user id.
	// Last write wins; concurrent logins for the same account may clobber
	// each other's update, which is accepted.
	SetFailedLoginAttempts(ctx context.Context, id string, attempts int) error
}
