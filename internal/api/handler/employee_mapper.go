package handler

import (
	"github.com/staffhub/employee-api/internal/core/domain"
	"github.com/staffhub/employee-api/internal/core/ports"
)

func toEmployeeResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone,
		DepartmentID: e.DepartmentID,
		JobRole:      e.JobRole,
		ProfilePhoto: e.ProfilePhoto,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toListEmployeesResponse(result *ports.EmployeeListResult) listEmployeesResponse {
	rows := make([]employeeRowResponse, 0, len(result.Items))
	for i := range result.Items {
		item := &result.Items[i]
		rows = append(rows, employeeRowResponse{
			employeeResponse: toEmployeeResponse(&item.Employee),
			Department: departmentRef{
				ID:   item.DepartmentID,
				Name: item.DepartmentName,
			},
		})
	}
	return listEmployeesResponse{
		Employees: rows,
		Page:      result.Page,
		Pages:     result.Pages,
	}
}
