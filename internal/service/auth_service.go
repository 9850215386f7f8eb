package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dom/movie-catalog/internal/auth"
	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/metrics"
	"github.com/dom/movie-catalog/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
	cfg      *config.Config
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenIssuer, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		cfg:      cfg,
		logger:   logger.Named("AuthService"),
	}
}

// Tokens exposes the issuer so the HTTP layer can verify bearer tokens.
func (s *AuthService) Tokens() *auth.TokenIssuer {
	return s.tokens
}

// RegisterBasic registers the credentials carried by a Basic authorization value.
func (s *AuthService) RegisterBasic(ctx context.Context, rawBasic string) (*domain.User, error) {
	email, password, err := auth.DecodeBasic(rawBasic)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "malformed").Inc()
		return nil, err
	}
	return s.Register(ctx, email, password)
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.createUser(ctx, email, password, domain.RoleUser)
	metrics.AuthAttempts.WithLabelValues("register", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.Uint("userID", user.ID))
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrMalformedCredential)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.HashRounds)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown email and for a
// wrong password alike.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates a Basic authorization value and issues a token pair.
func (s *AuthService) Login(ctx context.Context, rawBasic string) (*domain.TokenPair, error) {
	pair, err := s.login(ctx, rawBasic)
	metrics.AuthAttempts.WithLabelValues("login", metrics.Outcome(err)).Inc()
	return pair, err
}

func (s *AuthService) login(ctx context.Context, rawBasic string) (*domain.TokenPair, error) {
	email, password, err := auth.DecodeBasic(rawBasic)
	if err != nil {
		return nil, err
	}

	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.logger.Info("Login rejected")
		}
		return nil, err
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.Info("User logged in", zap.Uint("userID", user.ID))
	return pair, nil
}

// RotateAccessToken issues a new access token for the subject of a verified
// refresh token. The user is read again so a changed role takes effect.
func (s *AuthService) RotateAccessToken(ctx context.Context, refresh *domain.TokenPayload) (string, error) {
	if refresh == nil || refresh.Kind != domain.TokenRefresh {
		return "", domain.ErrKindMismatch
	}

	user, err := s.userRepo.GetByID(ctx, refresh.Subject)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("rotate", "error").Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Role, domain.TokenAccess)
	metrics.AuthAttempts.WithLabelValues("rotate", metrics.Outcome(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return token, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// SeedAdmin creates an administrator with the given credentials unless the
// email is already registered.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	user, err := s.createUser(ctx, email, password, domain.RoleAdmin)
	if errors.Is(err, domain.ErrAlreadyRegistered) {
		s.logger.Debug("Admin already present")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	s.logger.Info("Seeded admin user", zap.Uint("userID", user.ID))
	return nil
}
