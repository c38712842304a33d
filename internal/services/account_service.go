package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

var ErrMissingCredentials = errors.New("username and password required")

// AccountService handles signup and signin. Credentials are stored only as
// bcrypt hashes and compared in constant time.
type AccountService struct {
	users  domain.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.JWTManager
	log    logger.Logger
}

func NewAccountService(
	users domain.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.JWTManager,
	log logger.Logger,
) *AccountService {
	return &AccountService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

func (s *AccountService) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           utils.GenerateID("user"),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Signin verifies credentials and issues a session token. Unknown user and
// wrong password both map to ErrInvalidCredentials.
func (s *AccountService) Signin(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", ErrMissingCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", err
	}

	s.log.Info("User signed in", "user_id", user.ID, "username", username)
	return token, nil
}
