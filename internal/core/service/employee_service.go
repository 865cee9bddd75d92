package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffhub/employee-api/internal/api/metrics"
	"github.com/staffhub/employee-api/internal/core/domain"
	"github.com/staffhub/employee-api/internal/core/ports"
)

// pageSize is the fixed number of employees per list page.
const pageSize = 5

// EmployeeService implements employee CRUD and the paginated query path.
type EmployeeService struct {
	employees   ports.EmployeeRepository
	departments ports.DepartmentRepository
	photos      ports.PhotoStore
	log         zerolog.Logger
}

func NewEmployeeService(
	employees ports.EmployeeRepository,
	departments ports.DepartmentRepository,
	photos ports.PhotoStore,
	log zerolog.Logger,
) *EmployeeService {
	return &EmployeeService{employees: employees, departments: departments, photos: photos, log: log}
}

// List returns one page of employees matching the filter. Pages are
// 1-indexed; a page beyond the last yields an empty item set, not an error.
func (s *EmployeeService) List(ctx context.Context, filter ports.EmployeeFilter, page int) (*ports.EmployeeListResult, error) {
	if page < 1 {
		page = 1
	}

	items, count, err := s.employees.List(ctx, filter, pageSize, int64(pageSize)*int64(page-1))
	if err != nil {
		return nil, err
	}

	pages := int((count + pageSize - 1) / pageSize)
	return &ports.EmployeeListResult{Items: items, Page: page, Pages: pages}, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	return s.employees.FindByID(ctx, id)
}

func (s *EmployeeService) Create(ctx context.Context, input ports.CreateEmployeeInput) (*domain.Employee, error) {
	var violations []string
	if input.Name == "" {
		violations = append(violations, "name is required")
	}
	if input.Phone == "" {
		violations = append(violations, "phone is required")
	}
	if input.DepartmentID == "" {
		violations = append(violations, "department is required")
	}
	if input.JobRole == "" {
		violations = append(violations, "jobRole is required")
	}
	if !domain.ValidEmail(input.Email) {
		violations = append(violations, "invalid email format")
	}
	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	if err := s.checkDepartment(ctx, input.DepartmentID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	employee := &domain.Employee{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		DepartmentID: input.DepartmentID,
		JobRole:      input.JobRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if input.Photo != nil {
		path, err := s.photos.Store(input.Photo.Content, input.Photo.Filename)
		if err != nil {
			return nil, err
		}
		employee.ProfilePhoto = path
	}

	created, err := s.employees.Create(ctx, employee)
	if err != nil {
		// The record never existed, so its photo must not either.
		if employee.ProfilePhoto != "" {
			s.removePhoto(employee.ProfilePhoto)
		}
		return nil, err
	}

	metrics.EmployeeWritesTotal.WithLabelValues("create").Inc()
	s.log.Info().Str("id", created.ID).Str("name", created.Name).Msg("employee created")
	return created, nil
}

// Update applies a partial update: nil fields keep their previous value. A
// replacement photo is stored before the record is written; the old file is
// released afterwards, best-effort.
func (s *EmployeeService) Update(ctx context.Context, id string, input ports.UpdateEmployeeInput) (*domain.Employee, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if !domain.ValidEmail(*input.Email) {
			return nil, domain.NewValidationError("invalid email format")
		}
		employee.Email = *input.Email
	}
	if input.Name != nil {
		employee.Name = *input.Name
	}
	if input.Phone != nil {
		employee.Phone = *input.Phone
	}
	if input.JobRole != nil {
		employee.JobRole = *input.JobRole
	}
	if input.DepartmentID != nil && *input.DepartmentID != employee.DepartmentID {
		if err := s.checkDepartment(ctx, *input.DepartmentID); err != nil {
			return nil, err
		}
		employee.DepartmentID = *input.DepartmentID
	}

	previousPhoto := ""
	if input.Photo != nil {
		path, err := s.photos.Store(input.Photo.Content, input.Photo.Filename)
		if err != nil {
			return nil, err
		}
		previousPhoto = employee.ProfilePhoto
		employee.ProfilePhoto = path
	}

	employee.UpdatedAt = time.Now().UTC()
	if err := s.employees.Update(ctx, employee); err != nil {
		if input.Photo != nil {
			s.removePhoto(employee.ProfilePhoto)
		}
		return nil, err
	}

	if previousPhoto != "" {
		go s.removePhoto(previousPhoto)
	}

	metrics.EmployeeWritesTotal.WithLabelValues("update").Inc()
	return employee, nil
}

// Delete removes the record, then releases its photo file. File removal is
// fire-and-forget: its failure is logged, never surfaced.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}

	if employee.ProfilePhoto != "" {
		go s.removePhoto(employee.ProfilePhoto)
	}

	metrics.EmployeeWritesTotal.WithLabelValues("delete").Inc()
	s.log.Info().Str("id", id).Msg("employee removed")
	return nil
}

// checkDepartment verifies the foreign key resolves before persisting.
func (s *EmployeeService) checkDepartment(ctx context.Context, departmentID string) error {
	_, err := s.departments.FindByID(ctx, departmentID)
	if errors.Is(err, domain.ErrDepartmentNotFound) {
		return domain.NewValidationError("department does not exist")
	}
	return err
}

func (s *EmployeeService) removePhoto(path string) {
	if err := s.photos.Remove(path); err != nil {
		metrics.PhotoCleanupTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("path", path).Msg("failed to remove photo file")
		return
	}
	metrics.PhotoCleanupTotal.WithLabelValues("ok").Inc()
}
