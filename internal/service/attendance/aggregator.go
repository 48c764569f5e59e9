package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
)

const dateLayout = "2006-01-02"

// Aggregator groups ledger events into per-day rows. Calendar days are cut
// in loc.
type Aggregator struct {
	loc *time.Location
}

func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{loc: loc}
}

type dayBucket struct {
	day      time.Time
	checkIn  *time.Time
	checkOut *time.Time
}

// BuildReport summarizes events with start <= event_time <= end. Each day
// takes its earliest check-in and latest check-out; a day missing either side
// earns zero seconds and is flagged incomplete. Days are ordered ascending.
func (a *Aggregator) BuildReport(events []attendance.Event, start, end time.Time) attendance.Report {
	buckets := make(map[string]*dayBucket)

	for _, e := range events {
		if e.EventTime.Before(start) || e.EventTime.After(end) {
			continue
		}

		local := e.EventTime.In(a.loc)
		key := local.Format(dateLayout)
		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{day: utils.StartOfDay(local)}
			buckets[key] = b
		}

		switch e.Action {
		case attendance.ActionCheckIn:
			if b.checkIn == nil || local.Before(*b.checkIn) {
				t := local
				b.checkIn = &t
			}
		case attendance.ActionCheckOut:
			if b.checkOut == nil || local.After(*b.checkOut) {
				t := local
				b.checkOut = &t
			}
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	report := attendance.Report{
		Start: start.In(a.loc),
		End:   end.In(a.loc),
		Days:  make([]attendance.DayReport, 0, len(keys)),
	}

	for _, k := range keys {
		b := buckets[k]
		row := attendance.DayReport{
			Day:          b.day,
			CheckInTime:  b.checkIn,
			CheckOutTime: b.checkOut,
		}

		switch {
		case b.checkIn != nil && b.checkOut != nil:
			worked := int64(b.checkOut.Sub(*b.checkIn) / time.Second)
			if worked < 0 {
				worked = 0
			}
			row.WorkedSeconds = worked
		case b.checkIn != nil || b.checkOut != nil:
			row.Incomplete = true
		}

		report.TotalWorkedSeconds += row.WorkedSeconds
		report.Days = append(report.Days, row)
	}

	return report
}

// Window returns the trailing range [now-days, now].
func Window(now time.Time, days int) (time.Time, time.Time) {
	return now.AddDate(0, 0, -days), now
}

// DateWindow returns [startDate 00:00:00, endDate 23:59:59] in loc for
// dates in 2006-01-02 form.
func DateWindow(startDate, endDate string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDay, err := time.ParseInLocation(dateLayout, endDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endDay.Before(start) {
		return time.Time{}, time.Time{}, attendance.ErrInvalidWindow
	}
	end := endDay.AddDate(0, 0, 1).Add(-time.Second)
	return start, end, nil
}
