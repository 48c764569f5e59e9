package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Record runs the geofence and eligibility checks and appends the event on acceptance.
	// Policy rejections are returned in RecordResponse, not as errors.
	Record(ctx context.Context, req RecordRequest) (RecordResponse, error)

	// Today returns the employee's events for the current local day and what they may do next
	Today(ctx context.Context, employeeID string) (TodayResponse, error)

	// Report aggregates the employee's events over the requested window
	Report(ctx context.Context, req ReportRequest) (ReportResponse, error)

	// Presence lists active employees with whether they recorded anything today
	Presence(ctx context.Context) (PresenceResponse, error)

	// CheckLocation reports whether a coordinate pair is within the office geofence
	CheckLocation(ctx context.Context, req GeofenceRequest) (GeofenceResponse, error)
}

// TotalsService maintains the per-period working/leave counters.
type TotalsService interface {
	// Recalculate recomputes and persists the totals of one employee for the period containing asOf
	Recalculate(ctx context.Context, employeeID string, asOf time.Time) (Totals, error)

	// RecalculateAll runs Recalculate for every active employee and returns how many succeeded
	RecalculateAll(ctx context.Context, asOf time.Time) (int, error)
}

// CheckInHook is invoked after a check-in has been persisted.
type CheckInHook interface {
	OnCheckIn(ctx context.Context, event Event) error
}
