package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("IST", 5*3600+1800)

func at(h, m, s int) time.Time {
	return time.Date(2025, 3, 10, h, m, s, 0, testLoc)
}

func checkInAt(t time.Time) attendance.Event {
	return attendance.Event{
		EmployeeID: "emp@example.com",
		Action:     attendance.ActionCheckIn,
		EventTime:  t,
		Day:        utils.StartOfDay(t),
	}
}

func checkOutAt(t time.Time) attendance.Event {
	e := checkInAt(t)
	e.Action = attendance.ActionCheckOut
	return e
}

func TestEvaluator_CheckIn(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())

	tests := []struct {
		name   string
		now    time.Time
		todays []attendance.Event
		want   attendance.Decision
	}{
		{
			name: "window start is inclusive",
			now:  at(9, 30, 0),
			want: attendance.Accept(),
		},
		{
			name: "one second before window",
			now:  at(9, 29, 59),
			want: attendance.Reject(attendance.ReasonOutsideCheckInWindow),
		},
		{
			name: "window end is inclusive",
			now:  at(19, 45, 0),
			want: attendance.Accept(),
		},
		{
			name: "one second after window",
			now:  at(19, 45, 1),
			want: attendance.Reject(attendance.ReasonOutsideCheckInWindow),
		},
		{
			name:   "already checked in",
			now:    at(10, 0, 0),
			todays: []attendance.Event{checkInAt(at(9, 35, 0))},
			want:   attendance.Reject(attendance.ReasonAlreadyCheckedIn),
		},
		{
			name:   "window is checked before duplicates",
			now:    at(8, 0, 0),
			todays: []attendance.Event{checkInAt(at(9, 35, 0))},
			want:   attendance.Reject(attendance.ReasonOutsideCheckInWindow),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.Evaluate(attendance.ActionCheckIn, tt.now, tt.todays)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_CheckInAfterPriorCheckInAlwaysRejected(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	todays := []attendance.Event{checkInAt(at(9, 30, 0))}

	for _, now := range []time.Time{at(9, 30, 0), at(13, 30, 0), at(19, 45, 0)} {
		got, err := ev.Evaluate(attendance.ActionCheckIn, now, todays)
		require.NoError(t, err)
		assert.Equal(t, attendance.Reject(attendance.ReasonAlreadyCheckedIn), got, "at %s", now.Format("15:04:05"))
	}
}

func TestEvaluator_AfternoonInstant(t *testing.T) {
	policy := DefaultPolicy()
	policy.MorningEnd = utils.NewTimeOfDay(11, 0, 0)
	ev := NewEvaluator(policy)

	got, err := ev.Evaluate(attendance.ActionCheckIn, at(13, 30, 0), nil)
	require.NoError(t, err)
	assert.True(t, got.Accepted)

	got, err = ev.Evaluate(attendance.ActionCheckIn, at(13, 30, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, attendance.Reject(attendance.ReasonOutsideCheckInWindow), got)

	// sub-second noise does not break equality
	got, err = ev.Evaluate(attendance.ActionCheckIn, at(13, 30, 0).Add(400*time.Millisecond), nil)
	require.NoError(t, err)
	assert.True(t, got.Accepted)
}

func TestEvaluator_AfternoonTolerance(t *testing.T) {
	policy := DefaultPolicy()
	policy.MorningEnd = utils.NewTimeOfDay(11, 0, 0)
	policy.AfternoonTolerance = 5 * time.Minute
	ev := NewEvaluator(policy)

	for _, now := range []time.Time{at(13, 25, 0), at(13, 30, 0), at(13, 35, 0)} {
		got, err := ev.Evaluate(attendance.ActionCheckIn, now, nil)
		require.NoError(t, err)
		assert.True(t, got.Accepted, "at %s", now.Format("15:04:05"))
	}
	for _, now := range []time.Time{at(13, 24, 59), at(13, 35, 1)} {
		got, err := ev.Evaluate(attendance.ActionCheckIn, now, nil)
		require.NoError(t, err)
		assert.False(t, got.Accepted, "at %s", now.Format("15:04:05"))
	}
}

func TestEvaluator_CheckOut(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	checkedIn := []attendance.Event{checkInAt(at(9, 30, 0))}

	tests := []struct {
		name   string
		now    time.Time
		todays []attendance.Event
		want   attendance.Decision
	}{
		{
			name:   "minimum time is inclusive",
			now:    at(19, 15, 0),
			todays: checkedIn,
			want:   attendance.Accept(),
		},
		{
			name:   "one second too early",
			now:    at(19, 14, 59),
			todays: checkedIn,
			want:   attendance.Reject(attendance.ReasonTooEarlyCheckOut),
		},
		{
			name: "too early wins over missing check-in",
			now:  at(19, 0, 0),
			want: attendance.Reject(attendance.ReasonTooEarlyCheckOut),
		},
		{
			name: "no prior check-in",
			now:  at(19, 30, 0),
			want: attendance.Reject(attendance.ReasonNoPriorCheckIn),
		},
		{
			name:   "already checked out",
			now:    at(20, 0, 0),
			todays: []attendance.Event{checkInAt(at(9, 30, 0)), checkOutAt(at(19, 20, 0))},
			want:   attendance.Reject(attendance.ReasonAlreadyCheckedOut),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.Evaluate(attendance.ActionCheckOut, tt.now, tt.todays)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_NoPriorCheckInWithEarlierMinimum(t *testing.T) {
	policy := DefaultPolicy()
	policy.CheckoutMin = utils.NewTimeOfDay(17, 0, 0)
	ev := NewEvaluator(policy)

	got, err := ev.Evaluate(attendance.ActionCheckOut, at(19, 0, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, attendance.Reject(attendance.ReasonNoPriorCheckIn), got)
}

func TestEvaluator_InvalidAction(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())

	_, err := ev.Evaluate(attendance.Action("lunch"), at(10, 0, 0), nil)
	assert.ErrorIs(t, err, attendance.ErrInvalidAction)
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	inverted := DefaultPolicy()
	inverted.MorningStart, inverted.MorningEnd = inverted.MorningEnd, inverted.MorningStart
	assert.Error(t, inverted.Validate())

	negative := DefaultPolicy()
	negative.AfternoonTolerance = -time.Second
	assert.Error(t, negative.Validate())

	outOfRange := DefaultPolicy()
	outOfRange.CheckoutMin = utils.TimeOfDay(24 * 3600)
	assert.Error(t, outOfRange.Validate())
}
