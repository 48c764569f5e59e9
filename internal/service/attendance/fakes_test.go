package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

type memLedger struct {
	mu       sync.Mutex
	events   []attendance.Event
	unique   bool
	fetchErr error
	seq      int
}

func (m *memLedger) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unique {
		for _, e := range m.events {
			if e.EmployeeID == event.EmployeeID && e.Action == event.Action && e.Day.Equal(event.Day) {
				return attendance.Event{}, attendance.ErrDuplicateEvent
			}
		}
	}

	m.seq++
	event.ID = fmt.Sprintf("evt-%d", m.seq)
	event.CreatedAt = event.EventTime
	m.events = append(m.events, event)
	return event, nil
}

func (m *memLedger) FetchDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []attendance.Event
	for _, e := range m.events {
		if e.EmployeeID == employeeID && e.Day.Equal(day) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLedger) FetchRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []attendance.Event
	for _, e := range m.events {
		if e.EmployeeID != employeeID || e.EventTime.Before(start) || e.EventTime.After(end) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventTime.Before(out[j].EventTime) })
	return out, nil
}

func (m *memLedger) EmployeesWithEventsOn(ctx context.Context, day time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, e := range m.events {
		if e.Day.Equal(day) && !seen[e.EmployeeID] {
			seen[e.EmployeeID] = true
			out = append(out, e.EmployeeID)
		}
	}
	return out, nil
}

func (m *memLedger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

type memEmployees struct {
	mu        sync.Mutex
	employees map[string]*employee.Employee
	updates   int
}

func newMemEmployees(list ...employee.Employee) *memEmployees {
	m := &memEmployees{employees: make(map[string]*employee.Employee)}
	for i := range list {
		e := list[i]
		m.employees[e.ID] = &e
	}
	return m
}

func (m *memEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return *e, nil
}

func (m *memEmployees) ListActive(ctx context.Context) ([]employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []employee.Employee
	for _, e := range m.employees {
		if e.IsActive {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memEmployees) UpdateAttendanceTotals(ctx context.Context, id string, totalWorking, totalLeave int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.TotalWorking = totalWorking
	e.TotalLeave = totalLeave
	m.updates++
	return nil
}

type recordingHook struct {
	calls []attendance.Event
	err   error
}

func (h *recordingHook) OnCheckIn(ctx context.Context, event attendance.Event) error {
	h.calls = append(h.calls, event)
	return h.err
}

type recordingPublisher struct {
	events []sse.Event
}

func (p *recordingPublisher) Publish(channel string, event sse.Event) {
	event.Channel = channel
	p.events = append(p.events, event)
}

var errStorage = errors.New("storage unavailable")
