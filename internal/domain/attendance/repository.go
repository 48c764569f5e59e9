package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the append-only attendance ledger.
// It permits duplicate (employee, day, action) rows only when the storage
// backend lacks a uniqueness constraint; both bundled backends enforce one
// and report violations as ErrDuplicateEvent.
type AttendanceRepository interface {
	// Append persists a new event and returns it with ID and CreatedAt populated.
	Append(ctx context.Context, event Event) (Event, error)

	// FetchDay returns all events of the employee on the given local calendar day.
	FetchDay(ctx context.Context, employeeID string, day time.Time) ([]Event, error)

	// FetchRange returns events with start <= event_time <= end, ordered by event_time.
	FetchRange(ctx context.Context, employeeID string, start, end time.Time) ([]Event, error)

	// EmployeesWithEventsOn returns the distinct employee IDs having any event on day.
	EmployeesWithEventsOn(ctx context.Context, day time.Time) ([]string, error)
}
