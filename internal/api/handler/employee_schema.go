package handler

import "time"

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// service changes.

type departmentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type employeeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	DepartmentID string    `json:"departmentId"`
	JobRole      string    `json:"jobRole"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// employeeRowResponse is the list item: the department is denormalized into
// an id/name pair for display.
type employeeRowResponse struct {
	employeeResponse
	Department departmentRef `json:"department"`
}

type listEmployeesResponse struct {
	Employees []employeeRowResponse `json:"employees"`
	Page      int                   `json:"page"`
	Pages     int                   `json:"pages"`
}
