package service

import (
	"context"

	"github.com/staffhub/employee-api/internal/core/ports"
)

// StatsService assembles the dashboard summary: record totals plus the
// per-department employee distribution.
type StatsService struct {
	employees   ports.EmployeeRepository
	departments ports.DepartmentRepository
}

func NewStatsService(employees ports.EmployeeRepository, departments ports.DepartmentRepository) *StatsService {
	return &StatsService{employees: employees, departments: departments}
}

func (s *StatsService) Stats(ctx context.Context) (*ports.Stats, error) {
	totalEmployees, err := s.employees.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalDepartments, err := s.departments.Count(ctx)
	if err != nil {
		return nil, err
	}

	distribution, err := s.employees.Distribution(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.Stats{
		TotalEmployees:   totalEmployees,
		TotalDepartments: totalDepartments,
		Distribution:     distribution,
	}, nil
}
