package mongodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	attendanceCollection = "attendance_events"
	dateLayout           = "2006-01-02"
)

type eventDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	EmployeeID   string        `bson:"employee_id"`
	Action       string        `bson:"action"`
	EventTime    time.Time     `bson:"event_time"`
	Day          string        `bson:"day"` // YYYY-MM-DD in the deployment zone
	Latitude     float64       `bson:"latitude"`
	Longitude    float64       `bson:"longitude"`
	LocationText string        `bson:"location_text"`
	CreatedAt    time.Time     `bson:"created_at"`
}

func newEventDocument(e attendance.Event) eventDocument {
	return eventDocument{
		EmployeeID:   e.EmployeeID,
		Action:       string(e.Action),
		EventTime:    e.EventTime,
		Day:          e.Day.Format(dateLayout),
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		LocationText: e.LocationText,
		CreatedAt:    e.CreatedAt,
	}
}

func (d eventDocument) toEvent(loc *time.Location) (attendance.Event, error) {
	day, err := time.ParseInLocation(dateLayout, d.Day, loc)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("invalid day %q on event %s: %w", d.Day, d.ID.Hex(), err)
	}
	return attendance.Event{
		ID:           d.ID.Hex(),
		EmployeeID:   d.EmployeeID,
		Action:       attendance.Action(d.Action),
		EventTime:    d.EventTime.In(loc),
		Day:          day,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		LocationText: d.LocationText,
		CreatedAt:    d.CreatedAt.In(loc),
	}, nil
}

type attendanceStore struct {
	events *mongo.Collection
	loc    *time.Location
	now    func() time.Time
}

// NewAttendanceStore returns a ledger backed by the attendance_events
// collection, creating its indexes first.
func NewAttendanceStore(ctx context.Context, db *MongoDB, loc *time.Location) (attendance.AttendanceRepository, error) {
	if loc == nil {
		loc = time.Local
	}
	events := db.Collection(attendanceCollection)

	if _, err := events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "day", Value: 1}, {Key: "action", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "event_time", Value: 1}}},
		{Keys: bson.D{{Key: "day", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create attendance_events indexes: %w", err)
	}

	return &attendanceStore{events: events, loc: loc, now: time.Now}, nil
}

// Append implements attendance.AttendanceRepository.
func (s *attendanceStore) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	doc := newEventDocument(event)
	doc.ID = bson.NewObjectID()
	doc.CreatedAt = s.now()

	if _, err := s.events.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Event{}, attendance.ErrDuplicateEvent
		}
		return attendance.Event{}, fmt.Errorf("insert attendance event: %w", err)
	}

	event.ID = doc.ID.Hex()
	event.CreatedAt = doc.CreatedAt.In(s.loc)
	return event, nil
}

// FetchDay implements attendance.AttendanceRepository.
func (s *attendanceStore) FetchDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.Event, error) {
	return s.find(ctx, bson.M{
		"employee_id": employeeID,
		"day":         day.In(s.loc).Format(dateLayout),
	})
}

// FetchRange implements attendance.AttendanceRepository.
func (s *attendanceStore) FetchRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Event, error) {
	return s.find(ctx, bson.M{
		"employee_id": employeeID,
		"event_time":  bson.M{"$gte": start, "$lte": end},
	})
}

// EmployeesWithEventsOn implements attendance.AttendanceRepository.
func (s *attendanceStore) EmployeesWithEventsOn(ctx context.Context, day time.Time) ([]string, error) {
	var ids []string
	err := s.events.Distinct(ctx, "employee_id", bson.M{"day": day.In(s.loc).Format(dateLayout)}).Decode(&ids)
	if err != nil {
		return nil, fmt.Errorf("distinct employee_id: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *attendanceStore) find(ctx context.Context, filter bson.M) ([]attendance.Event, error) {
	cursor, err := s.events.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "event_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find attendance events: %w", err)
	}

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance events: %w", err)
	}

	events := make([]attendance.Event, 0, len(docs))
	for _, d := range docs {
		e, err := d.toEvent(s.loc)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
