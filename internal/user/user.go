// Package user owns accounts and the identity resolver that maps usernames
// to user identifiers.
package user

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"kinship/backend/internal/apperr"
	"kinship/backend/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Store persists accounts.
type Store interface {
	// Create inserts u. A taken username yields apperr.ErrConflict.
	Create(ctx context.Context, u *models.User) error
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	// ByIDs returns the users that exist among ids, in no particular order.
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	// Search returns users whose username contains q, ignoring case, ordered
	// by lowercased username. An empty q matches every user.
	Search(ctx context.Context, q string) ([]models.User, error)
	// Update writes the username and password hash of u. An unknown id yields
	// apperr.ErrNotFound and a taken username apperr.ErrConflict.
	Update(ctx context.Context, u *models.User) error
	// Delete removes the account, or yields apperr.ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

const (
	minPasswordLength = 8
	// bcrypt rejects longer inputs.
	maxPasswordLength = 72
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

// UserNotFoundError reports an unknown username.
type UserNotFoundError struct {
	Username string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q does not exist", e.Username)
}

func (e *UserNotFoundError) Is(target error) bool { return target == apperr.ErrNotFound }

// UsernameTakenError reports a registration with a username already in use.
type UsernameTakenError struct {
	Username string
}

func (e *UsernameTakenError) Error() string {
	return fmt.Sprintf("username %q is already taken", e.Username)
}

func (e *UsernameTakenError) Is(target error) bool { return target == apperr.ErrConflict }

// Service registers and authenticates users and resolves usernames.
type Service struct {
	store Store
	log   logrus.FieldLogger
	cost  int
}

// NewService returns a Service over store.
func NewService(store Store, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, log: log.WithField("component", "user"), cost: bcrypt.DefaultCost}
}

// Register creates an account.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if apperr.IsConflict(err) {
			return nil, &UsernameTakenError{Username: username}
		}
		return nil, errors.Wrap(err, "creating user")
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "username": username}).Info("User registered")
	return u, nil
}

// Authenticate checks a username and password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.byUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	return u, nil
}

// Resolve maps a username to its user identifier.
func (s *Service) Resolve(ctx context.Context, username string) (uuid.UUID, error) {
	u, err := s.byUsername(ctx, username)
	if err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}

// Get loads a user by identifier.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "loading user")
	}
	return u, nil
}

// Usernames returns the username of every known id in ids.
func (s *Service) Usernames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.store.ByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "loading users")
	}
	for _, u := range users {
		out[u.ID] = u.Username
	}
	return out, nil
}

// Search lists users whose username contains q.
func (s *Service) Search(ctx context.Context, q string) ([]models.User, error) {
	users, err := s.store.Search(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, errors.Wrap(err, "searching users")
	}
	return users, nil
}

// Update changes the username and/or password of an account. Empty fields
// are left unchanged.
func (s *Service) Update(ctx context.Context, id uuid.UUID, username, password string) (*models.User, error) {
	if username == "" && password == "" {
		return nil, apperr.Invalid("nothing to update")
	}
	if username != "" {
		if err := validateUsername(username); err != nil {
			return nil, err
		}
	}
	if password != "" {
		if err := validatePassword(password); err != nil {
			return nil, err
		}
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if username != "" {
		u.Username = username
	}
	if password != "" {
		if u.PasswordHash, err = s.hash(password); err != nil {
			return nil, err
		}
	}
	u.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, u); err != nil {
		if apperr.IsConflict(err) {
			return nil, &UsernameTakenError{Username: username}
		}
		return nil, errors.Wrap(err, "updating user")
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("User updated")
	return u, nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hash), nil
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return apperr.Invalid("username must be 3-32 characters of letters, digits, '_', '.' or '-'")
	}
	return nil
}

// Lengths are in bytes, which is what bcrypt limits.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperr.Invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return apperr.Invalid(fmt.Sprintf("password must be at most %d bytes", maxPasswordLength))
	}
	return nil
}

func (s *Service) byUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.store.ByUsername(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, &UserNotFoundError{Username: username}
		}
		return nil, errors.Wrap(err, "loading user")
	}
	return u, nil
}
