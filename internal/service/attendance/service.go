package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
)

// EventRecorded is the SSE event name for accepted attendance events.
const EventRecorded = "attendance.recorded"

// Publisher fans accepted events out to live subscribers. *sse.Hub satisfies it.
type Publisher interface {
	Publish(channel string, event sse.Event)
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	geofence         utils.Geofence
	evaluator        *Evaluator
	aggregator       *Aggregator
	locker           *EmployeeLocker
	reportWindowDays int
	loc              *time.Location
	checkInHook      attendance.CheckInHook
	publisher        Publisher
	now              func() time.Time
}

// Record implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Record(ctx context.Context, req attendance.RecordRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	lat, lon := *req.Latitude, *req.Longitude

	within, err := s.geofence.Contains(lat, lon)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	distance := s.geofence.Distance(lat, lon)
	if !within {
		slog.Info("attendance rejected outside office",
			"employee_id", req.EmployeeID,
			"action", req.Action,
			"distance_meters", distance,
		)
		return attendance.RecordResponse{Reason: attendance.ReasonOutsideOffice, DistanceMeters: distance}, nil
	}

	unlock := s.locker.Lock(req.EmployeeID)
	defer unlock()

	now := s.now().In(s.loc).Truncate(time.Second)
	today := utils.StartOfDay(now)

	todays, err := s.AttendanceRepository.FetchDay(ctx, req.EmployeeID, today)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to fetch today's attendance: %w", err)
	}

	decision, err := s.evaluator.Evaluate(req.Action, now, todays)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !decision.Accepted {
		slog.Info("attendance rejected by policy",
			"employee_id", req.EmployeeID,
			"action", req.Action,
			"reason", decision.Reason,
		)
		return attendance.RecordResponse{Reason: decision.Reason, DistanceMeters: distance}, nil
	}

	saved, err := s.AttendanceRepository.Append(ctx, attendance.Event{
		EmployeeID:   req.EmployeeID,
		Action:       req.Action,
		EventTime:    now,
		Day:          today,
		Latitude:     lat,
		Longitude:    lon,
		LocationText: attendance.FormatLocation(lat, lon),
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateEvent) {
			// another instance won the race for this day
			return attendance.RecordResponse{Reason: duplicateReason(req.Action), DistanceMeters: distance}, nil
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to append attendance event: %w", err)
	}

	if saved.Action == attendance.ActionCheckIn && s.checkInHook != nil {
		if err := s.checkInHook.OnCheckIn(ctx, saved); err != nil {
			slog.Error("check-in hook failed", "employee_id", saved.EmployeeID, "event_id", saved.ID, "error", err)
		}
	}

	event := attendance.NewEventResponse(saved)
	if s.publisher != nil {
		s.publisher.Publish(sse.ChannelHR, sse.Event{Event: EventRecorded, Data: event})
	}

	return attendance.RecordResponse{
		Accepted:       true,
		DistanceMeters: distance,
		Event:          &event,
	}, nil
}

func duplicateReason(action attendance.Action) attendance.ReasonCode {
	if action == attendance.ActionCheckOut {
		return attendance.ReasonAlreadyCheckedOut
	}
	return attendance.ReasonAlreadyCheckedIn
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, employeeID string) (attendance.TodayResponse, error) {
	now := s.now().In(s.loc).Truncate(time.Second)
	today := utils.StartOfDay(now)

	todays, err := s.AttendanceRepository.FetchDay(ctx, employeeID, today)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to fetch today's attendance: %w", err)
	}

	checkIn, err := s.evaluator.Evaluate(attendance.ActionCheckIn, now, todays)
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	checkOut, err := s.evaluator.Evaluate(attendance.ActionCheckOut, now, todays)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	events := make([]attendance.EventResponse, 0, len(todays))
	for _, e := range todays {
		events = append(events, attendance.NewEventResponse(e))
	}

	return attendance.TodayResponse{
		EmployeeID: employeeID,
		Date:       today.Format(dateLayout),
		Events:     events,
		CheckedIn:  attendance.HasAction(todays, attendance.ActionCheckIn),
		CheckedOut: attendance.HasAction(todays, attendance.ActionCheckOut),
		CheckIn:    attendance.ActionAvailability{Allowed: checkIn.Accepted, Reason: checkIn.Reason},
		CheckOut:   attendance.ActionAvailability{Allowed: checkOut.Accepted, Reason: checkOut.Reason},
	}, nil
}

// Report implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Report(ctx context.Context, req attendance.ReportRequest) (attendance.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ReportResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.ReportResponse{}, err
		}
		return attendance.ReportResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	var start, end time.Time
	if req.StartDate != "" {
		var err error
		start, end, err = DateWindow(req.StartDate, req.EndDate, s.loc)
		if err != nil {
			return attendance.ReportResponse{}, err
		}
	} else {
		days := req.Days
		if days == 0 {
			days = s.reportWindowDays
		}
		start, end = Window(s.now().In(s.loc), days)
	}

	events, err := s.AttendanceRepository.FetchRange(ctx, req.EmployeeID, start, end)
	if err != nil {
		return attendance.ReportResponse{}, fmt.Errorf("failed to fetch attendance range: %w", err)
	}

	report := s.aggregator.BuildReport(events, start, end)
	return attendance.NewReportResponse(req.EmployeeID, report), nil
}

// Presence implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Presence(ctx context.Context) (attendance.PresenceResponse, error) {
	today := utils.StartOfDay(s.now().In(s.loc))

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return attendance.PresenceResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	presentIDs, err := s.AttendanceRepository.EmployeesWithEventsOn(ctx, today)
	if err != nil {
		return attendance.PresenceResponse{}, fmt.Errorf("failed to list present employees: %w", err)
	}
	present := make(map[string]struct{}, len(presentIDs))
	for _, id := range presentIDs {
		present[id] = struct{}{}
	}

	result := make([]attendance.EmployeePresence, 0, len(employees))
	for _, emp := range employees {
		_, ok := present[emp.ID]
		result = append(result, attendance.EmployeePresence{
			EmployeeID:   emp.ID,
			Name:         emp.Name,
			PresentToday: ok,
		})
	}

	return attendance.PresenceResponse{
		Date:      today.Format(dateLayout),
		Employees: result,
	}, nil
}

// CheckLocation implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckLocation(ctx context.Context, req attendance.GeofenceRequest) (attendance.GeofenceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.GeofenceResponse{}, err
	}

	within, err := s.geofence.Contains(*req.Latitude, *req.Longitude)
	if err != nil {
		return attendance.GeofenceResponse{}, err
	}

	return attendance.GeofenceResponse{
		WithinOffice:   within,
		DistanceMeters: s.geofence.Distance(*req.Latitude, *req.Longitude),
		RadiusMeters:   s.geofence.RadiusMeters,
	}, nil
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	geofence utils.Geofence,
	evaluator *Evaluator,
	aggregator *Aggregator,
	locker *EmployeeLocker,
	reportWindowDays int,
	loc *time.Location,
	checkInHook attendance.CheckInHook,
	publisher Publisher,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.Local
	}
	if locker == nil {
		locker = NewEmployeeLocker()
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		geofence:             geofence,
		evaluator:            evaluator,
		aggregator:           aggregator,
		locker:               locker,
		reportWindowDays:     reportWindowDays,
		loc:                  loc,
		checkInHook:          checkInHook,
		publisher:            publisher,
		now:                  time.Now,
	}
}
