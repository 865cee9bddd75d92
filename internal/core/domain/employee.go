package domain

import (
	"regexp"
	"time"
)

// Employee is the core record managed by the service. ProfilePhoto holds the
// public path of the stored photo file, empty when none was uploaded. The
// employee owns that file's lifecycle: replaced or deleted together with the
// record.
type Employee struct {
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

// emailPattern is the local@domain.tld shape check applied on writes.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has a plausible email shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
