package ports

import (
	"context"

	"github.com/staffhub/employee-api/internal/core/domain"
)

// DepartmentRepository defines persistence for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, d *domain.Department) (*domain.Department, error)
	FindByID(ctx context.Context, id string) (*domain.Department, error)
	FindAll(ctx context.Context) ([]domain.Department, error)
	Update(ctx context.Context, d *domain.Department) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// UpdateDepartmentInput carries the optional fields of a partial update.
// Nil means "keep the current value".
type UpdateDepartmentInput struct {
	Name        *string
	Description *string
}

// DepartmentService defines use-case operations for departments.
type DepartmentService interface {
	Create(ctx context.Context, name, description string) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	Update(ctx context.Context, id string, input UpdateDepartmentInput) (*domain.Department, error)
	Delete(ctx context.Context, id string) error
}
