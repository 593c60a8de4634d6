package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/platform/logger"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// Service provides registration and login on top of the user store.
type Service interface {
	// Register creates a user from an email and plaintext password and
	// returns the user together with a signed access token.
	// Returns ErrEmailTaken if the email is already registered.
	Register(ctx context.Context, email, password string) (*domain.User, string, error)

	// Login verifies credentials and returns the user with a fresh access
	// token. Returns ErrInvalidCredentials on any mismatch.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

type authService struct {
	users  store.UserStore
	hasher PasswordHasher
	tokens JWTService
	logger *slog.Logger
}

var _ Service = (*authService)(nil)

// NewService creates an auth Service.
func NewService(
	users store.UserStore,
	hasher PasswordHasher,
	tokens JWTService,
	log *slog.Logger,
) Service {
	if users == nil {
		panic("users store cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if tokens == nil {
		panic("tokens service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: log.With(slog.String("component", "auth_service")),
	}
}

// Register implements Service.Register.
func (s *authService) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, "", err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// Login implements Service.Login.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch", slog.String("user_id", user.ID.String()))
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}
