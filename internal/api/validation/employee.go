package validation

import (
	"strings"

	"github.com/daap14/roster/internal/employee"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CreateEmployeeRequest mirrors the fields needed for create validation. An
// empty ID means the server generates one.
type CreateEmployeeRequest struct {
	ID   string
	Name string
	Team string
}

// ValidateCreateEmployeeRequest checks that name and team are present and
// that a supplied id is well formed.
func ValidateCreateEmployeeRequest(req CreateEmployeeRequest) []FieldError {
	var errs []FieldError

	if req.ID != "" && !employee.ValidExternalID(req.ID) {
		errs = append(errs, FieldError{Field: "id", Message: "id must be 1-64 characters of letters, digits, '-' or '_'"})
	}

	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(req.Team) == "" {
		errs = append(errs, FieldError{Field: "team", Message: "team is required"})
	}

	return errs
}

// UpdateEmployeeRequest mirrors the fields of a partial update. Nil fields
// are not being changed.
type UpdateEmployeeRequest struct {
	Name *string
	Team *string
}

// ValidateUpdateEmployeeRequest checks that at least one field is supplied
// and that supplied fields are not blank.
func ValidateUpdateEmployeeRequest(req UpdateEmployeeRequest) []FieldError {
	var errs []FieldError

	if req.Name == nil && req.Team == nil {
		return []FieldError{{Field: "", Message: "at least one of name, team is required"}}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name must not be blank"})
	}
	if req.Team != nil && strings.TrimSpace(*req.Team) == "" {
		errs = append(errs, FieldError{Field: "team", Message: "team must not be blank"})
	}

	return errs
}
