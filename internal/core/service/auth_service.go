package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffhub/employee-api/internal/api/metrics"
	"github.com/staffhub/employee-api/internal/core/domain"
	"github.com/staffhub/employee-api/internal/core/ports"
)

// LoginLimiter abstracts the attempt rate limiter (Redis).
type LoginLimiter interface {
	// Allow reports whether another login attempt is permitted for key.
	Allow(ctx context.Context, key string) (bool, error)
}

// AuthService implements registration, login and admin seeding.
type AuthService struct {
	users   ports.UserRepository
	tokens  *TokenIssuer
	limiter LoginLimiter
	log     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *TokenIssuer, limiter LoginLimiter, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, limiter: limiter, log: log}
}

func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) (*ports.AuthResult, error) {
	var violations []string
	if username == "" {
		violations = append(violations, "username is required")
	}
	if password == "" {
		violations = append(violations, "password is required")
	}
	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	if role == "" {
		role = domain.RoleUser
	}
	// Only boot-time seeding may create an admin, regardless of caller.
	if role == domain.RoleAdmin {
		return nil, domain.ErrAdminRegistration
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role must be one of: user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID, created.Role)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Msg("user registered")
	return &ports.AuthResult{User: created, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password, clientIP string) (*ports.AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	allowed, err := s.limiter.Allow(ctx, username+":"+clientIP)
	if err != nil {
		// Limiter outage must not lock everyone out.
		s.log.Warn().Err(err).Str("username", username).Msg("login limiter check failed, allowing attempt")
	} else if !allowed {
		metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.AuthResult{User: user, Token: token}, nil
}

// SeedAdmin creates the admin account from configuration when absent. Called
// once at startup; safe to call on every boot.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		s.log.Warn().Msg("admin seed credentials not configured, skipping")
		return nil
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// Lost race against a concurrent boot: the account exists, job done.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return err
	}

	s.log.Info().Str("username", username).Msg("admin account seeded")
	return nil
}
