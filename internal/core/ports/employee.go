package ports

import (
	"context"
	"io"

	"github.com/staffhub/employee-api/internal/core/domain"
)

// EmployeeFilter carries the optional list filters. Empty fields match all
// records.
type EmployeeFilter struct {
	// Keyword is a case-insensitive substring match on the employee name.
	Keyword string
	// DepartmentID is an exact match on the department foreign key.
	DepartmentID string
}

// EmployeeRow is a list item with the department name denormalized in.
type EmployeeRow struct {
	domain.Employee
	DepartmentName string
}

// EmployeeRepository defines persistence for employees.
type EmployeeRepository interface {
	// Create inserts an employee and returns the stored record with its
	// generated id. A duplicate email yields domain.ErrDuplicateEmail.
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id string) error
	// List returns one page of matching employees plus the total match count.
	List(ctx context.Context, filter EmployeeFilter, limit, offset int64) ([]EmployeeRow, int64, error)
	Count(ctx context.Context) (int64, error)
	// Distribution groups employees by department, joined to the department
	// name. Departments without employees never appear.
	Distribution(ctx context.Context) ([]DistributionRow, error)
}

// PhotoUpload is an uploaded profile photo handed from the transport layer to
// the service.
type PhotoUpload struct {
	Content  io.Reader
	Filename string
}

// CreateEmployeeInput carries all data needed to create an employee.
type CreateEmployeeInput struct {
	Name         string
	Email        string
	Phone        string
	DepartmentID string
	JobRole      string
	Photo        *PhotoUpload
}

// UpdateEmployeeInput carries the optional fields of a partial update. Nil
// means "keep the current value".
type UpdateEmployeeInput struct {
	Name         *string
	Email        *string
	Phone        *string
	DepartmentID *string
	JobRole      *string
	Photo        *PhotoUpload
}

// EmployeeListResult is one page of employees.
type EmployeeListResult struct {
	Items []EmployeeRow
	Page  int
	Pages int
}

// EmployeeService defines use-case operations for employees.
type EmployeeService interface {
	List(ctx context.Context, filter EmployeeFilter, page int) (*EmployeeListResult, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	Create(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error)
	Update(ctx context.Context, id string, input UpdateEmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
}
