package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const employeeCollection = "employees"

type employeeDocument struct {
	Email        string    `bson:"_id"`
	Name         string    `bson:"name"`
	JobRole      string    `bson:"job_role"`
	IsActive     bool      `bson:"is_active"`
	TotalWorking int       `bson:"total_working"`
	TotalLeave   int       `bson:"total_leave"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d employeeDocument) toEmployee() employee.Employee {
	return employee.Employee{
		ID:           d.Email,
		Name:         d.Name,
		JobRole:      d.JobRole,
		IsActive:     d.IsActive,
		TotalWorking: d.TotalWorking,
		TotalLeave:   d.TotalLeave,
		UpdatedAt:    d.UpdatedAt,
	}
}

type employeeStore struct {
	employees *mongo.Collection
}

func NewEmployeeStore(db *MongoDB) employee.EmployeeRepository {
	return &employeeStore{employees: db.Collection(employeeCollection)}
}

// GetByID implements employee.EmployeeRepository.
func (s *employeeStore) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var doc employeeDocument
	err := s.employees.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if err != nil {
		return employee.Employee{}, fmt.Errorf("find employee: %w", err)
	}
	return doc.toEmployee(), nil
}

// ListActive implements employee.EmployeeRepository.
func (s *employeeStore) ListActive(ctx context.Context) ([]employee.Employee, error) {
	cursor, err := s.employees.Find(ctx, bson.M{"is_active": true}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}

	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}

	result := make([]employee.Employee, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toEmployee())
	}
	return result, nil
}

// UpdateAttendanceTotals implements employee.EmployeeRepository.
func (s *employeeStore) UpdateAttendanceTotals(ctx context.Context, id string, totalWorking, totalLeave int) error {
	res, err := s.employees.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"total_working": totalWorking,
			"total_leave":   totalLeave,
			"updated_at":    time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("update employee totals: %w", err)
	}
	if res.MatchedCount == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
