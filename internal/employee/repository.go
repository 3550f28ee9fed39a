package employee

import (
	"context"
	"errors"
	"fmt"
)

// SchemaVersion is the schema version every backend upgrades to on open.
// Version 1 holds the employees collection only; version 2 adds the unique
// index on the external identifier.
const SchemaVersion = 2

// ErrNotFound is returned when no record matches an external identifier.
var ErrNotFound = errors.New("employee not found")

// ErrDuplicateKey is returned when an insert violates the external identifier index.
var ErrDuplicateKey = errors.New("employee id already exists")

// ErrStorage is returned for engine-level failures.
var ErrStorage = errors.New("storage error")

// ErrOpenFailed is returned when the store handle could not be opened or upgraded.
var ErrOpenFailed = errors.New("store open failed")

// Repository provides CRUD operations on the employees collection.
type Repository interface {
	Insert(ctx context.Context, e *Employee) error
	FetchAll(ctx context.Context) ([]Employee, error)
	UpdateByExternalID(ctx context.Context, externalID string, fields UpdateFields) error
	DeleteByExternalID(ctx context.Context, externalID string) error
	ClearAll(ctx context.Context) error
}

// Backend is an opened store handle.
type Backend interface {
	Repository
	Close() error
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
