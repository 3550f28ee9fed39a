package employee

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// State is the lifecycle state of the gateway's store handle.
type State int

const (
	StateUninitialized State = iota
	StateOpening
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateOpening:
		return "opening"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Opener opens and upgrades a backend.
type Opener func(ctx context.Context) (Backend, error)

// Gateway implements Repository over a lazily opened Backend. The handle is
// opened on first use and reused afterwards. Callers that arrive while an open
// is in flight wait for that open instead of starting their own. A failed open
// is retried by the next operation.
type Gateway struct {
	open  Opener
	group singleflight.Group

	mu      sync.Mutex
	state   State
	backend Backend
}

// NewGateway creates a Gateway that opens its backend with open.
func NewGateway(open Opener) *Gateway {
	return &Gateway{open: open}
}

// State reports the current handle state.
func (g *Gateway) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Ping opens the handle if needed.
func (g *Gateway) Ping(ctx context.Context) error {
	_, err := g.handle(ctx)
	return err
}

// Close releases the backend. The gateway returns to the uninitialized state
// and reopens on the next operation.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.backend == nil {
		return nil
	}
	err := g.backend.Close()
	g.backend = nil
	g.state = StateUninitialized
	return err
}

func (g *Gateway) handle(ctx context.Context) (Backend, error) {
	g.mu.Lock()
	if g.state == StateReady {
		b := g.backend
		g.mu.Unlock()
		return b, nil
	}
	g.state = StateOpening
	g.mu.Unlock()

	v, err, _ := g.group.Do("open", func() (any, error) {
		// A concurrent Do may have finished between the check above and here.
		g.mu.Lock()
		if g.state == StateReady {
			b := g.backend
			g.mu.Unlock()
			return b, nil
		}
		g.mu.Unlock()

		// Joined callers wait on this open, so the starting caller's
		// cancellation must not fail it for them.
		b, err := g.open(context.WithoutCancel(ctx))

		g.mu.Lock()
		defer g.mu.Unlock()
		if err != nil {
			g.state = StateFailed
			slog.Error("failed to open employee store", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
		}
		g.backend = b
		g.state = StateReady
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Backend), nil
}

// Insert adds a new record.
func (g *Gateway) Insert(ctx context.Context, e *Employee) error {
	b, err := g.handle(ctx)
	if err != nil {
		return err
	}
	return b.Insert(ctx, e)
}

// FetchAll returns every record in internal key order.
func (g *Gateway) FetchAll(ctx context.Context) ([]Employee, error) {
	b, err := g.handle(ctx)
	if err != nil {
		return nil, err
	}
	return b.FetchAll(ctx)
}

// UpdateByExternalID merges fields into the record with the given external identifier.
func (g *Gateway) UpdateByExternalID(ctx context.Context, externalID string, fields UpdateFields) error {
	b, err := g.handle(ctx)
	if err != nil {
		return err
	}
	return b.UpdateByExternalID(ctx, externalID, fields)
}

// DeleteByExternalID removes the record with the given external identifier.
func (g *Gateway) DeleteByExternalID(ctx context.Context, externalID string) error {
	b, err := g.handle(ctx)
	if err != nil {
		return err
	}
	return b.DeleteByExternalID(ctx, externalID)
}

// ClearAll removes every record.
func (g *Gateway) ClearAll(ctx context.Context) error {
	b, err := g.handle(ctx)
	if err != nil {
		return err
	}
	return b.ClearAll(ctx)
}
