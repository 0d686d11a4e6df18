// Package auth registers users and issues the bearer tokens that identify
// them to the task endpoints.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"taskmanager/forms"
	"taskmanager/models"
	"taskmanager/store"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Hasher hashes and verifies passwords. *PasswordHasher implements it.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type Service struct {
	users  store.UserRepository
	hasher Hasher
	tokens *TokenManager
	logger *log.Logger
	// dummyHash is verified against when the username is unknown so both
	// failed-login paths pay the same hashing cost.
	dummyHash string
}

func NewService(users store.UserRepository, hasher Hasher, tokens *TokenManager, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		logger.Warn("unable to prepare dummy password hash", "err", err)
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, logger: logger, dummyHash: dummy}
}

// Register validates the form and creates the account.
func (s *Service) Register(ctx context.Context, form forms.RegisterForm) (*models.User, error) {
	reg, verr := form.Validate()
	if verr != nil {
		return nil, verr
	}

	hashed, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:        uuid.New(),
		Username:  reg.Username,
		Email:     reg.Email,
		Password:  hashed,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *Service) Login(ctx context.Context, form forms.LoginForm) (*TokenPair, error) {
	creds, verr := form.Validate()
	if verr != nil {
		return nil, verr
	}

	user, err := s.users.FindUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.hasher.Verify(creds.Password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(creds.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.tokens.Issue(user.ID, user.Username)
}

// Refresh exchanges a refresh token for a new pair, provided the user still exists.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	id, err := claims.UUID()
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.tokens.Issue(user.ID, user.Username)
}

func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(token)
}
