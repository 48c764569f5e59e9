package validator

import (
	"errors"
	"testing"
)

type structSample struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Action     string `json:"action" validate:"required,oneof=check-in check-out"`
	Days       int    `json:"days" validate:"omitempty,min=1,max=366"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct_Valid(t *testing.T) {
	s := structSample{EmployeeID: "a@b.cd", Action: "check-in", Days: 30, StartDate: "2025-03-10"}
	if err := Struct(s); err != nil {
		t.Errorf("Struct() = %v, want nil", err)
	}
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	s := structSample{Action: "lunch", Days: 400, StartDate: "10/03/2025"}
	err := Struct(s)

	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Struct() error type = %T, want ValidationErrors", err)
	}

	got := errs.ToMap()
	want := map[string]string{
		"employee_id": "employee_id is required",
		"action":      "action must be one of: check-in, check-out",
		"days":        "days must be at most 366",
		"start_date":  "start_date must match format 2006-01-02",
	}
	if len(got) != len(want) {
		t.Fatalf("Struct() returned %d errors, want %d: %v", len(got), len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Struct()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "action", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; action: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "action", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "action": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
