package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

// Append implements attendance.AttendanceRepository.
func (a *attendanceRepository) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to generate event id: %w", err)
	}
	event.ID = id.String()

	query := `
		INSERT INTO attendance_events (
			id, employee_id, action, event_time, day, latitude, longitude, location_text
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		event.ID,
		event.EmployeeID,
		string(event.Action),
		event.EventTime,
		event.Day,
		event.Latitude,
		event.Longitude,
		event.LocationText,
	).Scan(&event.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return attendance.Event{}, attendance.ErrDuplicateEvent
		}
		return attendance.Event{}, fmt.Errorf("failed to append attendance event: %w", err)
	}

	event.CreatedAt = event.CreatedAt.In(a.loc)
	return event, nil
}

// FetchDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) FetchDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, action, event_time, day, latitude, longitude, location_text, created_at
		FROM attendance_events
		WHERE employee_id = $1 AND day = $2
		ORDER BY event_time ASC
	`

	rows, err := q.Query(ctx, query, employeeID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance day: %w", err)
	}
	return a.scanEvents(rows)
}

// FetchRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) FetchRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, action, event_time, day, latitude, longitude, location_text, created_at
		FROM attendance_events
		WHERE employee_id = $1 AND event_time >= $2 AND event_time <= $3
		ORDER BY event_time ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance range: %w", err)
	}
	return a.scanEvents(rows)
}

// EmployeesWithEventsOn implements attendance.AttendanceRepository.
func (a *attendanceRepository) EmployeesWithEventsOn(ctx context.Context, day time.Time) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT DISTINCT employee_id
		FROM attendance_events
		WHERE day = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees with events: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee ids: %w", err)
	}
	return ids, nil
}

func (a *attendanceRepository) scanEvents(rows pgx.Rows) ([]attendance.Event, error) {
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		var (
			e      attendance.Event
			action string
			day    time.Time
		)
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &action, &e.EventTime, &day,
			&e.Latitude, &e.Longitude, &e.LocationText, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		e.Action = attendance.Action(action)
		e.EventTime = e.EventTime.In(a.loc)
		e.CreatedAt = e.CreatedAt.In(a.loc)
		// DATE columns come back as UTC midnight
		e.Day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, a.loc)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance events: %w", err)
	}
	return events, nil
}

func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	if loc == nil {
		loc = time.Local
	}
	return &attendanceRepository{db: db, loc: loc}
}
