package ports

import (
	"context"

	"github.com/staffhub/employee-api/internal/core/domain"
)

// AuthResult is returned after a successful registration or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService defines registration, login and boot-time admin seeding.
type AuthService interface {
	// Register creates a user account. An empty role defaults to "user";
	// requesting the admin role yields domain.ErrAdminRegistration.
	Register(ctx context.Context, username, password string, role domain.Role) (*AuthResult, error)
	// Login authenticates by username/password. clientIP scopes the attempt
	// rate limit alongside the username.
	Login(ctx context.Context, username, password, clientIP string) (*AuthResult, error)
	// SeedAdmin idempotently creates the admin account from configuration.
	SeedAdmin(ctx context.Context, username, password string) error
}
