package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffhub/employee-api/internal/core/domain"
	"github.com/staffhub/employee-api/internal/core/ports"
)

// DepartmentService implements department CRUD. Deleting a department does
// not cascade to its employees; their foreign key simply stops resolving.
type DepartmentService struct {
	departments ports.DepartmentRepository
	log         zerolog.Logger
}

func NewDepartmentService(departments ports.DepartmentRepository, log zerolog.Logger) *DepartmentService {
	return &DepartmentService{departments: departments, log: log}
}

func (s *DepartmentService) Create(ctx context.Context, name, description string) (*domain.Department, error) {
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}

	now := time.Now().UTC()
	created, err := s.departments.Create(ctx, &domain.Department{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("id", created.ID).Str("name", created.Name).Msg("department created")
	return created, nil
}

func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.departments.FindAll(ctx)
}

func (s *DepartmentService) Update(ctx context.Context, id string, input ports.UpdateDepartmentInput) (*domain.Department, error) {
	department, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		department.Name = *input.Name
	}
	if input.Description != nil {
		department.Description = *input.Description
	}
	department.UpdatedAt = time.Now().UTC()

	if err := s.departments.Update(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("department removed")
	return nil
}
