package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, i18n.T(ctx, "validation_failed"), validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidLocation):
		BadRequest(w, i18n.T(ctx, "invalid_location"), nil)
	case errors.Is(err, attendance.ErrInvalidWindow):
		BadRequest(w, i18n.T(ctx, "invalid_window"), nil)
	case errors.Is(err, attendance.ErrInvalidAction):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrDuplicateEvent):
		Conflict(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, i18n.T(ctx, "employee_not_found"))

	// Default
	default:
		slog.ErrorContext(ctx, "unhandled error", "error", err, "path", r.URL.Path)
		InternalServerError(w, i18n.T(ctx, "internal_error"))
	}
}
