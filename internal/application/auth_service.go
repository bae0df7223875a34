package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ankicc/backend/internal/domain/entity"
	repo "github.com/ankicc/backend/internal/domain/repository"
	"github.com/ankicc/backend/pkg/helpers"
	"github.com/ankicc/backend/pkg/mailer"
	"github.com/ankicc/backend/pkg/validation"
)

var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password"
	// so a login response never reveals whether the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict means the username or email is already registered.
	ErrConflict = errors.New("username or email already registered")

	// ErrUnavailable means storage, hashing or signing itself failed, as
	// opposed to returning a negative result.
	ErrUnavailable = errors.New("service unavailable")
)

// Service orchestrates credential validation, directory lookups, password
// hashing and token issuance for registration and login. It holds no mutable
// state; concurrent requests proceed independently.
type Service struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Pub    *helpers.RabbitPublisher // optional; nil disables notifications
	Logger *logrus.Logger
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, logger *logrus.Logger) *Service {
	return &Service{Repo: r, JWT: jwt, Pub: pub, Logger: logger}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register validates, checks uniqueness, hashes and inserts a new user.
// New accounts are never admins and start with a zero attempt counter. No
// token is issued; registration and login are separate steps.
//
// The email and username pre-checks are best-effort: the unique constraints
// in the directory are what actually prevents duplicates under concurrency,
// and a constraint violation at insert maps to the same ErrConflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if err := validation.ValidateCredentials(in.Username, in.Email, in.Password); err != nil {
		return err
	}

	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return s.unavailable("email lookup", err)
	}

	if _, err := s.Repo.GetByUsername(ctx, in.Username); err == nil {
		return ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return s.unavailable("username lookup", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return s.unavailable("password hash", err)
	}

	u := &entity.User{
		Username:            in.Username,
		Email:               in.Email,
		PasswordHash:        hash,
		IsAdmin:             false,
		FailedLoginAttempts: 0,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrConflict
		}
		return s.unavailable("insert user", err)
	}
	return nil
}

// Login resolves the identifier against username or email, verifies the
// password, records the attempt outcome and issues a session token.
//
// The attempt counter is written before the outcome is returned, success or
// not: a reset to zero on a match, previous value plus one otherwise. If that
// write fails the whole request fails, even though the authentication
// decision is already known. The counter is recorded only; no number of
// failures blocks a later correct login.
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (string, error) {
	u, err := s.Repo.GetByIdentifier(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", s.unavailable("user lookup", err)
	}

	verified, verifyErr := helpers.VerifyPassword(u.PasswordHash, password)
	if verifyErr != nil {
		// A stored hash we cannot even parse counts as a failed
		// verification; an incompatible hash is an operational failure and
		// is surfaced as such after the counter update below.
		verified = false
	}

	attempts := 0
	if !verified {
		attempts = u.FailedLoginAttempts + 1
	}
	if err := s.Repo.SetFailedLoginAttempts(ctx, u.ID, attempts); err != nil {
		return "", s.unavailable("attempt counter update", err)
	}

	if verifyErr != nil && !errors.Is(verifyErr, helpers.ErrMalformedHash) {
		return "", s.unavailable("password verify", verifyErr)
	}
	if !verified {
		s.notifyFailedLogin(ctx, u, attempts)
		return "", ErrInvalidCredentials
	}

	token, err := s.JWT.GenerateToken(u.ID, u.Username)
	if err != nil {
		return "", s.unavailable("token signing", err)
	}
	return token, nil
}

func (s *Service) unavailable(op string, err error) error {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("op", op).Error("auth operation failed")
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, op)
}

// notifyFailedLogin enqueues a security notification email. Best effort: a
// publish failure never changes the login outcome.
func (s *Service) notifyFailedLogin(ctx context.Context, u *entity.User, attempts int) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:      u.Email,
		Subject: "Failed sign-in attempt on your account",
		Text: fmt.Sprintf(
			"Someone tried to sign in to the account %q at %s and failed. "+
				"Consecutive failed attempts: %d. If this was you, you can ignore this email.",
			u.Username, time.Now().UTC().Format(time.RFC1123), attempts),
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed-login notification publish failed")
	}
}
