package ports

import (
	"context"

	"github.com/staffhub/employee-api/internal/core/domain"
)

// UserRepository defines persistence for credential records.
type UserRepository interface {
	// Create inserts a user and returns the stored record with its generated id.
	// A duplicate username yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
