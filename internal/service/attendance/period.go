package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/teambition/rrule-go"
)

// DefaultWorkdayRule schedules Monday through Saturday.
const DefaultWorkdayRule = "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR,SA"

// PeriodContaining returns the first and last calendar day of the attendance
// period that contains asOf. When startDay > endDay the period spans two
// months (e.g. 21st through the 20th of the next month). Days beyond a
// month's length clamp to its last day.
func PeriodContaining(asOf time.Time, startDay, endDay int) (time.Time, time.Time) {
	day := utils.StartOfDay(asOf)
	y, m, d := day.Date()
	loc := day.Location()

	if startDay <= endDay {
		return dateClamped(y, m, startDay, loc), dateClamped(y, m, endDay, loc)
	}

	if d >= clampDay(y, m, startDay) {
		return dateClamped(y, m, startDay, loc), dateClamped(y, m+1, endDay, loc)
	}
	return dateClamped(y, m-1, startDay, loc), dateClamped(y, m, endDay, loc)
}

func dateClamped(y int, m time.Month, d int, loc *time.Location) time.Time {
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	y, m, _ = first.Date()
	return time.Date(y, m, clampDay(y, m, d), 0, 0, 0, 0, loc)
}

func clampDay(y int, m time.Month, d int) int {
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if d > last {
		return last
	}
	if d < 1 {
		return 1
	}
	return d
}

// WorkdayCalendar expands an RFC 5545 recurrence rule into scheduled workdays.
type WorkdayCalendar struct {
	rule string
	loc  *time.Location
}

func NewWorkdayCalendar(rule string, loc *time.Location) (*WorkdayCalendar, error) {
	if rule == "" {
		rule = DefaultWorkdayRule
	}
	if loc == nil {
		loc = time.Local
	}
	if _, err := rrule.StrToROption(rule); err != nil {
		return nil, fmt.Errorf("invalid workday rule %q: %w", rule, err)
	}
	return &WorkdayCalendar{rule: rule, loc: loc}, nil
}

// Workdays returns the scheduled days between from and to inclusive, each at
// local midnight.
func (c *WorkdayCalendar) Workdays(from, to time.Time) ([]time.Time, error) {
	start := utils.StartOfDay(from.In(c.loc))
	end := utils.StartOfDay(to.In(c.loc))
	if end.Before(start) {
		return nil, nil
	}

	opt, err := rrule.StrToROption(c.rule)
	if err != nil {
		return nil, fmt.Errorf("invalid workday rule %q: %w", c.rule, err)
	}
	opt.Dtstart = start

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build workday rule: %w", err)
	}
	return rule.Between(start, end, true), nil
}

// CountTotals derives the period counters. working counts distinct days with
// a check-in; leave counts workdays strictly before today without one.
func CountTotals(events []attendance.Event, workdays []time.Time, today time.Time, loc *time.Location) (working, leave int) {
	present := make(map[string]struct{})
	for _, e := range events {
		if e.Action != attendance.ActionCheckIn {
			continue
		}
		present[e.EventTime.In(loc).Format(dateLayout)] = struct{}{}
	}

	cutoff := utils.StartOfDay(today.In(loc))
	for _, d := range workdays {
		local := d.In(loc)
		if !local.Before(cutoff) {
			continue
		}
		if _, ok := present[local.Format(dateLayout)]; !ok {
			leave++
		}
	}

	return len(present), leave
}
