package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankicc/backend/internal/domain/entity"
	repo "github.com/ankicc/backend/internal/domain/repository"
	"github.com/ankicc/backend/pkg/helpers"
	"github.com/ankicc/backend/pkg/validation"
)

// fakeUserRepo is an in-memory UserRepository with injectable failures.
type fakeUserRepo struct {
	users map[string]*entity.User // keyed by id

	lookupErr     error // returned by all Get* when set
	createErr     error
	setAttemptErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	u.ID = fmt.Sprintf("id-%d", len(f.users)+1)
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	if u, err := f.GetByUsername(ctx, identifier); err == nil {
		return u, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	return f.GetByEmail(ctx, identifier)
}

func (f *fakeUserRepo) SetFailedLoginAttempts(_ context.Context, id string, attempts int) error {
	if f.setAttemptErr != nil {
		return f.setAttemptErr
	}
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.FailedLoginAttempts = attempts
	return nil
}

var _ repo.UserRepository = (*fakeUserRepo)(nil)

func newTestService(r repo.UserRepository) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(r, helpers.NewJWTManager("test-secret"), nil, logger)
}

func mustRegister(t *testing.T, svc *Service, username, email, password string) {
	t.Helper()
	require.NoError(t, svc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	}))
}

func TestRegisterAndLogin(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestService(r)
	mustRegister(t, svc, "alice", "alice@example.com", "correcthorse")

	// stored hash is argon2i, not the plaintext
	u, err := r.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "correcthorse", u.PasswordHash)
	assert.False(t, u.IsAdmin)
	assert.Zero(t, u.FailedLoginAttempts)

	token, err := svc.Login(context.Background(), "alice", "correcthorse")
	require.NoError(t, err)

	claims, err := helpers.NewJWTManager("test-secret").ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Subject)
}

func TestLoginByEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	mustRegister(t, svc, "alice", "alice@example.com", "correcthorse")

	token, err := svc.Login(context.Background(), "alice@example.com", "correcthorse")
	require.NoError(t, err)

	// subject is the username even when the email was used to log in
	claims, err := helpers.NewJWTManager("test-secret").ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "not-an-email",
		Password: "correcthorse",
	})
	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestRegisterConflicts(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestService(r)
	mustRegister(t, svc, "alice", "alice@example.com", "correcthorse")

	t.Run("same email", func(t *testing.T) {
		err := svc.Register(context.Background(), RegisterInput{
			Username: "other", Email: "alice@example.com", Password: "correcthorse",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("same username", func(t *testing.T) {
		err := svc.Register(context.Background(), RegisterInput{
			Username: "alice", Email: "other@example.com", Password: "correcthorse",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("constraint violation at insert", func(t *testing.T) {
		// Pre-checks pass but the insert races with another registration.
		r.createErr = repo.ErrDuplicate
		defer func() { r.createErr = nil }()
		err := svc.Register(context.Background(), RegisterInput{
			Username: "brand_new", Email: "brand_new@example.com", Password: "correcthorse",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestRegisterDirectoryDown(t *testing.T) {
	r := newFakeUserRepo()
	r.lookupErr = errors.New("connection refused")
	svc := newTestService(r)

	err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correcthorse",
	})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), "nobody", "whatever123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPasswordIncrementsCounter(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestService(r)
	mustRegister(t, svc, "alice", "alice@example.com", "correcthorse")

	_, err := svc.Login(context.Background(), "alice", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, _ := r.GetByUsername(context.Background(), "alice")
	assert.Equal(t, 1, u.FailedLoginAttempts)

	_, err = svc.Login(context.Background(), "alice", "still wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 2, u.FailedLoginAttempts)
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestService(r)
	mustRegister(t, svc, "alice", "alice@example.com", "correcthorse")

	u, _ := r.GetByUsername(context.Background(), "alice")
	u.FailedLoginAttempts = 7

	_, err := svc.Login(context.Background(), "alice", "correcthorse")
	require.NoError(t, err)
	assert.Zero(t, u.FailedLoginAttempts)
}

func TestLoginNeverLocksOut(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestService(r)
	mustRegister(t, svc, "alice", "alice@example.com", "correcthorse")

	// The counter records history; it never gates authentication.
	u, _ := r.GetByUsername(context.Background(), "alice")
	u.FailedLoginAttempts = 1 << 30

	token, err := svc.Login(context.Background(), "alice", "correcthorse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Zero(t, u.FailedLoginAttempts)
}

func TestLoginCounterWriteFailure(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestService(r)
	mustRegister(t, svc, "alice", "alice@example.com", "correcthorse")

	// Even a correct password fails if the attempt record cannot be written.
	r.setAttemptErr = errors.New("connection reset")
	_, err := svc.Login(context.Background(), "alice", "correcthorse")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginMalformedStoredHash(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestService(r)
	mustRegister(t, svc, "alice", "alice@example.com", "correcthorse")

	u, _ := r.GetByUsername(context.Background(), "alice")
	u.PasswordHash = "not-a-phc-string"

	// Undecodable hash reads as a wrong password, and still counts as a
	// failed attempt.
	_, err := svc.Login(context.Background(), "alice", "correcthorse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, u.FailedLoginAttempts)
}

func TestLoginUnsupportedStoredHash(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestService(r)
	mustRegister(t, svc, "alice", "alice@example.com", "correcthorse")

	u, _ := r.GetByUsername(context.Background(), "alice")
	u.PasswordHash = "$argon2i$v=16$m=65536,t=10,p=4$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0"

	// A hash this build cannot recompute is an operational failure, not a
	// wrong password. The attempt is still recorded first.
	_, err := svc.Login(context.Background(), "alice", "correcthorse")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, u.FailedLoginAttempts)
}

func TestLoginDirectoryDown(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestService(r)
	mustRegister(t, svc, "alice", "alice@example.com", "correcthorse")

	r.lookupErr = errors.New("connection refused")
	_, err := svc.Login(context.Background(), "alice", "correcthorse")
	assert.ErrorIs(t, err, ErrUnavailable)
}
