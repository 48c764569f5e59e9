package employee

import "time"

// Employee is the read model of an employee record. Profile data is managed
// elsewhere; this service only maintains the attendance counters.
type Employee struct {
	ID           string // email address
	Name         string
	JobRole      string
	IsActive     bool
	TotalWorking int
	TotalLeave   int
	UpdatedAt    time.Time
}
