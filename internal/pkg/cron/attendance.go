package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// AttendanceJobs keeps the period working/leave counters current.
type AttendanceJobs struct {
	totalsService attendance.TotalsService
	markingHour   int
	loc           *time.Location
	now           func() time.Time

	mu      sync.Mutex
	lastRun string
}

func NewAttendanceJobs(totalsService attendance.TotalsService, markingHour int, loc *time.Location) *AttendanceJobs {
	return &AttendanceJobs{
		totalsService: totalsService,
		markingHour:   markingHour,
		loc:           loc,
		now:           time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("recalculate_attendance_totals", 15*time.Minute, j.RecalculateTotals)
}

// RecalculateTotals runs once per local day, on the first tick at or after the marking hour.
// Days before today without a check-in become leave, so running later in the day is safe.
func (j *AttendanceJobs) RecalculateTotals(ctx context.Context) error {
	now := j.now().In(j.loc)
	if now.Hour() < j.markingHour {
		return nil
	}

	today := now.Format("2006-01-02")
	j.mu.Lock()
	if j.lastRun == today {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	slog.Info("Cron: Starting attendance totals job", "date", today)

	updated, err := j.totalsService.RecalculateAll(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to recalculate attendance totals: %w", err)
	}

	j.mu.Lock()
	j.lastRun = today
	j.mu.Unlock()

	slog.Info("Cron: Attendance totals job completed", "date", today, "updated", updated)
	return nil
}
