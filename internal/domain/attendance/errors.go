package attendance

import (
	"errors"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
)

// Attendance domain errors
var (
	// Contract violations
	ErrInvalidAction   = errors.New("action must be check-in or check-out")
	ErrInvalidLocation = utils.ErrInvalidLocation
	ErrInvalidWindow   = errors.New("report window end must not be before its start")

	// Storage
	ErrDuplicateEvent = errors.New("attendance event already recorded for this day")
	ErrEventNotFound  = errors.New("attendance event not found")
)
