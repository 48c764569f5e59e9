package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// RECORD (CHECK-IN / CHECK-OUT)
// ========================================

type RecordRequest struct {
	EmployeeID string   `json:"employee_id" validate:"required"`
	Action     Action   `json:"action" validate:"required,oneof=check-in check-out"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// Validate checks the request shape. Missing or malformed coordinates
// yield ErrInvalidLocation so no event is ever created without a location.
func (r *RecordRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Latitude == nil || r.Longitude == nil {
		return ErrInvalidLocation
	}
	return utils.ValidateCoordinates(*r.Latitude, *r.Longitude)
}

type EventResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Action       Action  `json:"action"`
	EventTime    string  `json:"event_time"`
	Date         string  `json:"date"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationText string  `json:"location_text"`
}

type RecordResponse struct {
	Accepted       bool           `json:"accepted"`
	Reason         ReasonCode     `json:"reason,omitempty"`
	DistanceMeters float64        `json:"distance_meters"`
	Event          *EventResponse `json:"event,omitempty"`
}

// ========================================
// TODAY STATUS
// ========================================

type ActionAvailability struct {
	Allowed bool       `json:"allowed"`
	Reason  ReasonCode `json:"reason,omitempty"`
}

type TodayResponse struct {
	EmployeeID string             `json:"employee_id"`
	Date       string             `json:"date"`
	Events     []EventResponse    `json:"events"`
	CheckedIn  bool               `json:"checked_in"`
	CheckedOut bool               `json:"checked_out"`
	CheckIn    ActionAvailability `json:"check_in"`
	CheckOut   ActionAvailability `json:"check_out"`
}

// ========================================
// REPORT
// ========================================

type ReportRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Days       int    `json:"days" validate:"omitempty,min=1,max=366"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *ReportRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if (r.StartDate == "") != (r.EndDate == "") {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date and end_date must be provided together",
		})
	}
	if r.StartDate != "" && r.Days != 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "days",
			Message: "days cannot be combined with start_date/end_date",
		})
	}
	if r.StartDate != "" && r.EndDate != "" && r.EndDate < r.StartDate {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DayReportResponse struct {
	Date          string  `json:"date"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	CheckInTime   *string `json:"check_in_time,omitempty"`
	CheckOutTime  *string `json:"check_out_time,omitempty"`
	WorkedSeconds int64   `json:"worked_seconds"`
	TotalHours    string  `json:"total_hours"`
	Incomplete    bool    `json:"incomplete"`
}

type ReportResponse struct {
	EmployeeID         string              `json:"employee_id"`
	StartDate          string              `json:"start_date"`
	EndDate            string              `json:"end_date"`
	Days               []DayReportResponse `json:"days"`
	TotalWorkedSeconds int64               `json:"total_worked_seconds"`
	TotalWorkedHours   string              `json:"total_worked_hours"`
}

// ========================================
// PRESENCE / GEOFENCE / TOTALS
// ========================================

type EmployeePresence struct {
	EmployeeID   string `json:"employee_id"`
	Name         string `json:"name"`
	PresentToday bool   `json:"present_today"`
}

type PresenceResponse struct {
	Date      string             `json:"date"`
	Employees []EmployeePresence `json:"employees"`
}

type GeofenceRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *GeofenceRequest) Validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return ErrInvalidLocation
	}
	return utils.ValidateCoordinates(*r.Latitude, *r.Longitude)
}

type GeofenceResponse struct {
	WithinOffice   bool    `json:"is_within_office"`
	DistanceMeters float64 `json:"distance_meters"`
	RadiusMeters   float64 `json:"radius_meters"`
}

type TotalsResponse struct {
	EmployeeID   string `json:"employee_id"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	WorkingDays  int    `json:"total_working"`
	LeaveDays    int    `json:"total_leave"`
	CalculatedAt string `json:"calculated_at"`
}

// ========================================
// MAPPERS
// ========================================

func NewEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		EmployeeID:   e.EmployeeID,
		Action:       e.Action,
		EventTime:    e.EventTime.Format("2006-01-02 15:04:05"),
		Date:         e.Day.Format("2006-01-02"),
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		LocationText: e.LocationText,
	}
}

func NewReportResponse(employeeID string, r Report) ReportResponse {
	days := make([]DayReportResponse, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, DayReportResponse{
			Date:          d.Day.Format("2006-01-02"),
			CheckIn:       clockLabel(d.CheckInTime),
			CheckOut:      clockLabel(d.CheckOutTime),
			CheckInTime:   timestampPtr(d.CheckInTime),
			CheckOutTime:  timestampPtr(d.CheckOutTime),
			WorkedSeconds: d.WorkedSeconds,
			TotalHours:    utils.FormatDuration(d.WorkedSeconds),
			Incomplete:    d.Incomplete,
		})
	}

	return ReportResponse{
		EmployeeID:         employeeID,
		StartDate:          r.Start.Format("2006-01-02"),
		EndDate:            r.End.Format("2006-01-02"),
		Days:               days,
		TotalWorkedSeconds: r.TotalWorkedSeconds,
		TotalWorkedHours:   utils.FormatDuration(r.TotalWorkedSeconds),
	}
}

func NewTotalsResponse(t Totals) TotalsResponse {
	return TotalsResponse{
		EmployeeID:   t.EmployeeID,
		PeriodStart:  t.PeriodStart.Format("2006-01-02"),
		PeriodEnd:    t.PeriodEnd.Format("2006-01-02"),
		WorkingDays:  t.WorkingDays,
		LeaveDays:    t.LeaveDays,
		CalculatedAt: t.CalculatedAt.Format("2006-01-02 15:04:05"),
	}
}

func clockLabel(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("03:04 PM")
}

func timestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02 15:04:05")
	return &s
}

// ========================================
// STREAM
// ========================================

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
