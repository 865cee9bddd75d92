package ports

import "context"

// DistributionRow is the employee count for one department.
type DistributionRow struct {
	DepartmentID string
	Name         string
	Count        int64
}

// Stats is the dashboard summary view.
type Stats struct {
	TotalEmployees   int64
	TotalDepartments int64
	Distribution     []DistributionRow
}

// StatsService computes the dashboard aggregation report.
type StatsService interface {
	Stats(ctx context.Context) (*Stats, error)
}
