package employee

import "fmt"

// Backend names accepted by NewOpener.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// NewOpener returns the Opener for the named backend. path is used by the
// sqlite backend and databaseURL by the postgres backend.
func NewOpener(backend, path, databaseURL string) (Opener, error) {
	switch backend {
	case BackendSQLite:
		if path == "" {
			return nil, fmt.Errorf("sqlite backend requires a store path")
		}
		return SQLiteOpener(path), nil
	case BackendPostgres:
		if databaseURL == "" {
			return nil, fmt.Errorf("postgres backend requires a database URL")
		}
		return PostgresOpener(databaseURL), nil
	case BackendMemory:
		return MemoryOpener(NewMemoryRepository()), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
