package employee

import "regexp"

// externalIDRegex bounds client-supplied external identifiers to characters
// that are safe as a single URL path segment.
var externalIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidExternalID reports whether id may be used as an external identifier.
// Generated UUIDs always pass.
func ValidExternalID(id string) bool {
	return externalIDRegex.MatchString(id)
}

// Employee represents a single record in the employees collection.
type Employee struct {
	// InternalKey is assigned by the store on insert and never edited.
	InternalKey int64
	ExternalID  string
	Name        string
	Team        string
}

// UpdateFields holds the fields merged into an existing record on update.
// Nil fields are left untouched.
type UpdateFields struct {
	Name *string
	Team *string
}

// apply merges the non-nil fields into e.
func (f UpdateFields) apply(e *Employee) {
	if f.Name != nil {
		e.Name = *f.Name
	}
	if f.Team != nil {
		e.Team = *f.Team
	}
}
