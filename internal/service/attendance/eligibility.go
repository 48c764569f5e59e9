package attendance

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
)

// Policy holds the time-of-day rules for accepting check-ins and check-outs.
type Policy struct {
	MorningStart   utils.TimeOfDay
	MorningEnd     utils.TimeOfDay
	AfternoonExact utils.TimeOfDay

	// AfternoonTolerance widens the afternoon instant into [exact-tol, exact+tol].
	// Zero keeps second-precision equality.
	AfternoonTolerance time.Duration

	CheckoutMin utils.TimeOfDay
}

func DefaultPolicy() Policy {
	return Policy{
		MorningStart:   utils.NewTimeOfDay(9, 30, 0),
		MorningEnd:     utils.NewTimeOfDay(19, 45, 0),
		AfternoonExact: utils.NewTimeOfDay(13, 30, 0),
		CheckoutMin:    utils.NewTimeOfDay(19, 15, 0),
	}
}

func (p Policy) Validate() error {
	for _, t := range []utils.TimeOfDay{p.MorningStart, p.MorningEnd, p.AfternoonExact, p.CheckoutMin} {
		if !t.Valid() {
			return errors.New("policy time of day out of range")
		}
	}
	if p.MorningEnd < p.MorningStart {
		return errors.New("morning check-in window ends before it starts")
	}
	if p.AfternoonTolerance < 0 {
		return errors.New("afternoon tolerance must not be negative")
	}
	return nil
}

// Evaluator decides whether an attendance action is allowed. It is a pure
// function of its inputs; callers serialize read-evaluate-append per employee.
type Evaluator struct {
	policy Policy
}

func NewEvaluator(policy Policy) *Evaluator {
	return &Evaluator{policy: policy}
}

func (e *Evaluator) Policy() Policy {
	return e.policy
}

// Evaluate applies the rules for action at now. todays must hold only the
// employee's events on now's calendar date. The first matching rejection wins.
func (e *Evaluator) Evaluate(action attendance.Action, now time.Time, todays []attendance.Event) (attendance.Decision, error) {
	tod := utils.TimeOfDayOf(now)

	switch action {
	case attendance.ActionCheckIn:
		if !e.inCheckInWindow(tod) {
			return attendance.Reject(attendance.ReasonOutsideCheckInWindow), nil
		}
		if attendance.HasAction(todays, attendance.ActionCheckIn) {
			return attendance.Reject(attendance.ReasonAlreadyCheckedIn), nil
		}
		return attendance.Accept(), nil

	case attendance.ActionCheckOut:
		if tod < e.policy.CheckoutMin {
			return attendance.Reject(attendance.ReasonTooEarlyCheckOut), nil
		}
		if !attendance.HasAction(todays, attendance.ActionCheckIn) {
			return attendance.Reject(attendance.ReasonNoPriorCheckIn), nil
		}
		if attendance.HasAction(todays, attendance.ActionCheckOut) {
			return attendance.Reject(attendance.ReasonAlreadyCheckedOut), nil
		}
		return attendance.Accept(), nil
	}

	return attendance.Decision{}, attendance.ErrInvalidAction
}

func (e *Evaluator) inCheckInWindow(tod utils.TimeOfDay) bool {
	if tod >= e.policy.MorningStart && tod <= e.policy.MorningEnd {
		return true
	}

	diff := tod.Sub(e.policy.AfternoonExact)
	if diff < 0 {
		diff = -diff
	}
	return diff <= e.policy.AfternoonTolerance
}
