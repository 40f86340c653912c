package history

import (
	"context"
	"time"
)

// Lifecycle actions recorded by the manager.
const (
	ActionInstall = "install"
	ActionStart   = "start"
	ActionStop    = "stop"
)

// Event is one lifecycle transition of the managed simulator.
type Event struct {
	OccurredAt time.Time `json:"occurred_at"`
	Action     string    `json:"action"`
	PID        int       `json:"pid"`
	Error      string    `json:"error,omitempty"` // empty on success
}

// Sink is a destination for lifecycle events. The manager treats a nil
// Sink as "history disabled"; send failures are logged, never fatal.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}
