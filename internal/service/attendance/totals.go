package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

// PeriodConfig bounds the monthly attendance period by day of month.
type PeriodConfig struct {
	StartDay int
	EndDay   int
}

type TotalsServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	calendar *WorkdayCalendar
	period   PeriodConfig
	loc      *time.Location
	now      func() time.Time
}

// Recalculate implements attendance.TotalsService.
func (s *TotalsServiceImpl) Recalculate(ctx context.Context, employeeID string, asOf time.Time) (attendance.Totals, error) {
	asOf = asOf.In(s.loc)
	periodStart, periodEnd := PeriodContaining(asOf, s.period.StartDay, s.period.EndDay)

	until := periodEnd.AddDate(0, 0, 1).Add(-time.Second)
	if asOf.Before(until) {
		until = asOf
	}

	events, err := s.AttendanceRepository.FetchRange(ctx, employeeID, periodStart, until)
	if err != nil {
		return attendance.Totals{}, fmt.Errorf("failed to fetch period attendance: %w", err)
	}

	workdays, err := s.calendar.Workdays(periodStart, until)
	if err != nil {
		return attendance.Totals{}, err
	}

	working, leave := CountTotals(events, workdays, asOf, s.loc)

	if err := s.EmployeeRepository.UpdateAttendanceTotals(ctx, employeeID, working, leave); err != nil {
		return attendance.Totals{}, fmt.Errorf("failed to update attendance totals: %w", err)
	}

	return attendance.Totals{
		EmployeeID:   employeeID,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		WorkingDays:  working,
		LeaveDays:    leave,
		CalculatedAt: s.now().In(s.loc),
	}, nil
}

// RecalculateAll implements attendance.TotalsService.
func (s *TotalsServiceImpl) RecalculateAll(ctx context.Context, asOf time.Time) (int, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	updated := 0
	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if _, err := s.Recalculate(ctx, emp.ID, asOf); err != nil {
			slog.Error("failed to recalculate attendance totals", "employee_id", emp.ID, "error", err)
			continue
		}
		updated++
	}

	return updated, nil
}

// OnCheckIn implements attendance.CheckInHook.
func (s *TotalsServiceImpl) OnCheckIn(ctx context.Context, event attendance.Event) error {
	_, err := s.Recalculate(ctx, event.EmployeeID, event.EventTime)
	return err
}

func NewTotalsService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	calendar *WorkdayCalendar,
	period PeriodConfig,
	loc *time.Location,
) *TotalsServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	return &TotalsServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		calendar:             calendar,
		period:               period,
		loc:                  loc,
		now:                  time.Now,
	}
}
