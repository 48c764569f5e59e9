package attendance

import (
	"fmt"
	"time"
)

type Action string

const (
	ActionCheckIn  Action = "check-in"
	ActionCheckOut Action = "check-out"
)

func (a Action) Valid() bool {
	return a == ActionCheckIn || a == ActionCheckOut
}

// Event is a single immutable ledger entry. Events are never updated or deleted.
type Event struct {
	ID         string
	EmployeeID string
	Action     Action
	EventTime  time.Time

	// Day is the local calendar date of EventTime, midnight in the deployment location.
	Day time.Time

	Latitude     float64
	Longitude    float64
	LocationText string
	CreatedAt    time.Time
}

// FormatLocation renders coordinates for audit display.
func FormatLocation(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}

// HasAction reports whether any event in events carries the given action.
func HasAction(events []Event, action Action) bool {
	for _, e := range events {
		if e.Action == action {
			return true
		}
	}
	return false
}

// ReasonCode identifies why an attendance action was rejected.
type ReasonCode string

const (
	ReasonOutsideCheckInWindow ReasonCode = "outside_checkin_window"
	ReasonAlreadyCheckedIn     ReasonCode = "already_checked_in"
	ReasonTooEarlyCheckOut     ReasonCode = "too_early_checkout"
	ReasonNoPriorCheckIn       ReasonCode = "no_prior_checkin"
	ReasonAlreadyCheckedOut    ReasonCode = "already_checked_out"
	ReasonOutsideOffice        ReasonCode = "outside_office"
)

// Decision is the outcome of evaluating an attendance action.
// A rejection is a normal result, not an error.
type Decision struct {
	Accepted bool
	Reason   ReasonCode
}

func Accept() Decision {
	return Decision{Accepted: true}
}

func Reject(reason ReasonCode) Decision {
	return Decision{Reason: reason}
}

// DayReport summarizes one calendar day of events. It is derived, never stored.
type DayReport struct {
	Day          time.Time
	CheckInTime  *time.Time
	CheckOutTime *time.Time

	// WorkedSeconds is zero unless both CheckInTime and CheckOutTime are present.
	WorkedSeconds int64

	// Incomplete marks a day with exactly one of check-in or check-out.
	Incomplete bool
}

type Report struct {
	Start              time.Time
	End                time.Time
	Days               []DayReport
	TotalWorkedSeconds int64
}

// Totals are the running attendance counters for one attendance period.
type Totals struct {
	EmployeeID   string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	WorkingDays  int
	LeaveDays    int
	CalculatedAt time.Time
}
