package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
	Geofence(w http.ResponseWriter, r *http.Request)

	// HR
	EmployeeReport(w http.ResponseWriter, r *http.Request)
	Presence(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

// Subscriber is the read side of the event hub.
type Subscriber interface {
	Subscribe(channel string) (chan sse.Event, func())
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	totalsService     attendance.TotalsService
	jwtService        jwt.Service
	events            Subscriber
	keepalive         time.Duration
}

func NewAttendanceHandler(
	attendanceService attendance.AttendanceService,
	totalsService attendance.TotalsService,
	jwtService jwt.Service,
	events Subscriber,
) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		totalsService:     totalsService,
		jwtService:        jwtService,
		events:            events,
		keepalive:         30 * time.Second,
	}
}

type locationBody struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, attendance.ActionCheckIn)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, attendance.ActionCheckOut)
}

func (h *attendanceHandlerImpl) record(w http.ResponseWriter, r *http.Request, action attendance.Action) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var body locationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Debug("Failed to decode attendance body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req := attendance.RecordRequest{
		EmployeeID: principal.EmployeeID,
		Action:     action,
		Latitude:   body.Latitude,
		Longitude:  body.Longitude,
	}

	result, err := h.attendanceService.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	if !result.Accepted {
		var data map[string]any
		if result.Reason == attendance.ReasonOutsideOffice {
			data = map[string]any{"Distance": fmt.Sprintf("%.0f", result.DistanceMeters)}
		}
		response.Rejected(w, string(result.Reason), i18n.T(r.Context(), string(result.Reason), data), result)
		return
	}

	message := "check_in_recorded"
	if action == attendance.ActionCheckOut {
		message = "check_out_recorded"
	}
	response.Created(w, i18n.T(r.Context(), message), result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.Today(r.Context(), principal.EmployeeID)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// Report implements AttendanceHandler.
func (h *attendanceHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	h.report(w, r, principal.EmployeeID)
}

// EmployeeReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) EmployeeReport(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, chi.URLParam(r, "employeeID"))
}

func (h *attendanceHandlerImpl) report(w http.ResponseWriter, r *http.Request, employeeID string) {
	query := r.URL.Query()
	req := attendance.ReportRequest{
		EmployeeID: employeeID,
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
	}

	if daysStr := query.Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			response.HandleError(w, r, validator.ValidationErrors{{
				Field:   "days",
				Message: "days must be an integer",
			}})
			return
		}
		req.Days = days
	}

	result, err := h.attendanceService.Report(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// Geofence implements AttendanceHandler.
func (h *attendanceHandlerImpl) Geofence(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var req attendance.GeofenceRequest

	if v := query.Get("latitude"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.HandleError(w, r, attendance.ErrInvalidLocation)
			return
		}
		req.Latitude = &lat
	}
	if v := query.Get("longitude"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.HandleError(w, r, attendance.ErrInvalidLocation)
			return
		}
		req.Longitude = &lon
	}

	result, err := h.attendanceService.CheckLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// Presence implements AttendanceHandler.
func (h *attendanceHandlerImpl) Presence(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Presence(r.Context())
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// Recalculate implements AttendanceHandler.
func (h *attendanceHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	totals, err := h.totalsService.Recalculate(r.Context(), employeeID, time.Now())
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, attendance.NewTotalsResponse(totals))
}

// StreamToken generates a short-lived token for the HR event stream
func (h *attendanceHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(principal.EmployeeID, principal.Role)
	if err != nil {
		slog.Error("Failed to generate SSE token", "error", err)
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, attendance.StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream pushes accepted attendance events to HR over SSE
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the token comes in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	employeeID, role, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	if role != jwt.RoleHR {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.events.Subscribe(sse.ChannelHR)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"employee_id\":%q}\n\n", employeeID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
