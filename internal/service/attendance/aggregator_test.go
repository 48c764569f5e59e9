package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayAt(day, h, m int) time.Time {
	return time.Date(2025, 3, day, h, m, 0, 0, testLoc)
}

func TestAggregator_BuildReport_FullDay(t *testing.T) {
	agg := NewAggregator(testLoc)
	events := []attendance.Event{
		checkInAt(dayAt(10, 9, 30)),
		checkOutAt(dayAt(10, 19, 15)),
	}

	report := agg.BuildReport(events, dayAt(1, 0, 0), dayAt(31, 0, 0))

	require.Len(t, report.Days, 1)
	day := report.Days[0]
	assert.Equal(t, dayAt(10, 0, 0), day.Day)
	assert.Equal(t, int64(35100), day.WorkedSeconds)
	assert.False(t, day.Incomplete)
	assert.Equal(t, int64(35100), report.TotalWorkedSeconds)
}

func TestAggregator_BuildReport_NoPartialCredit(t *testing.T) {
	agg := NewAggregator(testLoc)
	events := []attendance.Event{
		checkInAt(dayAt(10, 9, 30)),
		checkOutAt(dayAt(11, 19, 30)),
	}

	report := agg.BuildReport(events, dayAt(1, 0, 0), dayAt(31, 0, 0))

	require.Len(t, report.Days, 2)
	for _, d := range report.Days {
		assert.Zero(t, d.WorkedSeconds)
		assert.True(t, d.Incomplete)
	}
	assert.NotNil(t, report.Days[0].CheckInTime)
	assert.Nil(t, report.Days[0].CheckOutTime)
	assert.Nil(t, report.Days[1].CheckInTime)
	assert.NotNil(t, report.Days[1].CheckOutTime)
	assert.Zero(t, report.TotalWorkedSeconds)
}

func TestAggregator_BuildReport_EarliestInLatestOut(t *testing.T) {
	agg := NewAggregator(testLoc)
	events := []attendance.Event{
		checkOutAt(dayAt(10, 19, 20)),
		checkInAt(dayAt(10, 10, 0)),
		checkInAt(dayAt(10, 9, 40)),
		checkOutAt(dayAt(10, 20, 0)),
	}

	report := agg.BuildReport(events, dayAt(1, 0, 0), dayAt(31, 0, 0))

	require.Len(t, report.Days, 1)
	assert.Equal(t, dayAt(10, 9, 40), *report.Days[0].CheckInTime)
	assert.Equal(t, dayAt(10, 20, 0), *report.Days[0].CheckOutTime)
	assert.Equal(t, int64(10*3600+20*60), report.Days[0].WorkedSeconds)
}

func TestAggregator_BuildReport_CheckOutBeforeCheckInClampsToZero(t *testing.T) {
	agg := NewAggregator(testLoc)
	events := []attendance.Event{
		checkInAt(dayAt(10, 19, 40)),
		checkOutAt(dayAt(10, 19, 20)),
	}

	report := agg.BuildReport(events, dayAt(1, 0, 0), dayAt(31, 0, 0))

	require.Len(t, report.Days, 1)
	assert.Zero(t, report.Days[0].WorkedSeconds)
	assert.False(t, report.Days[0].Incomplete)
}

func TestAggregator_BuildReport_OrdersDaysAndSumsTotal(t *testing.T) {
	agg := NewAggregator(testLoc)
	events := []attendance.Event{
		checkInAt(dayAt(12, 9, 30)),
		checkOutAt(dayAt(12, 19, 30)),
		checkInAt(dayAt(3, 9, 30)),
		checkOutAt(dayAt(3, 19, 15)),
	}

	report := agg.BuildReport(events, dayAt(1, 0, 0), dayAt(31, 0, 0))

	require.Len(t, report.Days, 2)
	assert.Equal(t, dayAt(3, 0, 0), report.Days[0].Day)
	assert.Equal(t, dayAt(12, 0, 0), report.Days[1].Day)
	assert.Equal(t, int64(35100+36000), report.TotalWorkedSeconds)
}

func TestAggregator_BuildReport_ExcludesOutsideWindow(t *testing.T) {
	agg := NewAggregator(testLoc)
	events := []attendance.Event{
		checkInAt(dayAt(1, 9, 30)),
		checkOutAt(dayAt(1, 19, 30)),
		checkInAt(dayAt(10, 9, 30)),
		checkOutAt(dayAt(10, 19, 30)),
		checkInAt(dayAt(25, 9, 30)),
	}

	report := agg.BuildReport(events, dayAt(5, 0, 0), dayAt(20, 0, 0))

	require.Len(t, report.Days, 1)
	assert.Equal(t, dayAt(10, 0, 0), report.Days[0].Day)
}

func TestAggregator_BuildReport_GroupsByLocalDate(t *testing.T) {
	agg := NewAggregator(testLoc)
	// 20:00 UTC on the 9th is 01:30 on the 10th in IST
	utcEvent := checkInAt(time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC))

	report := agg.BuildReport([]attendance.Event{utcEvent}, dayAt(1, 0, 0), dayAt(31, 0, 0))

	require.Len(t, report.Days, 1)
	assert.Equal(t, dayAt(10, 0, 0), report.Days[0].Day)
}

func TestAggregator_BuildReport_Idempotent(t *testing.T) {
	agg := NewAggregator(testLoc)
	events := []attendance.Event{
		checkInAt(dayAt(10, 9, 30)),
		checkOutAt(dayAt(10, 19, 15)),
		checkInAt(dayAt(11, 9, 45)),
	}

	first := agg.BuildReport(events, dayAt(1, 0, 0), dayAt(31, 0, 0))
	second := agg.BuildReport(events, dayAt(1, 0, 0), dayAt(31, 0, 0))
	assert.Equal(t, first, second)
}

func TestAggregator_BuildReport_Empty(t *testing.T) {
	agg := NewAggregator(testLoc)

	report := agg.BuildReport(nil, dayAt(1, 0, 0), dayAt(31, 0, 0))

	assert.Empty(t, report.Days)
	assert.Zero(t, report.TotalWorkedSeconds)
}

func TestWindow(t *testing.T) {
	now := dayAt(31, 12, 0)
	start, end := Window(now, 30)
	assert.Equal(t, dayAt(1, 12, 0), start)
	assert.Equal(t, now, end)
}

func TestDateWindow(t *testing.T) {
	start, end, err := DateWindow("2025-03-01", "2025-03-10", testLoc)
	require.NoError(t, err)
	assert.Equal(t, dayAt(1, 0, 0), start)
	assert.Equal(t, time.Date(2025, 3, 10, 23, 59, 59, 0, testLoc), end)

	_, _, err = DateWindow("2025-03-10", "2025-03-01", testLoc)
	assert.ErrorIs(t, err, attendance.ErrInvalidWindow)

	_, _, err = DateWindow("03/01/2025", "2025-03-10", testLoc)
	assert.Error(t, err)
}
