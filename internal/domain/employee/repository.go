package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)

	// UpdateAttendanceTotals overwrites the working/leave counters of one employee
	UpdateAttendanceTotals(ctx context.Context, id string, totalWorking, totalLeave int) error
}
