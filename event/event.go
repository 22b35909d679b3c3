// Package event provides the status and citation events that tool operations
// report back to the host runtime.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of event delivered to the host runtime.
type Type string

const (
	// TypeStatus is a progress update for an in-flight tool operation.
	TypeStatus Type = "status"
	// TypeCitation is a source reference extracted from a tool result.
	TypeCitation Type = "citation"
)

// Event is a single notification delivered to the host runtime's event sink.
// Exactly one of Status or Citation is set, according to Type.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Timestamp float64   `json:"timestamp"`
	Status    *Status   `json:"status,omitempty"`
	Citation  *Citation `json:"citation,omitempty"`
}

// Status describes the progress of a tool operation.
type Status struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
	Hidden      bool   `json:"hidden"`
}

// Citation references a source document backing a tool result.
type Citation struct {
	Document []string `json:"document"`
	Source   Source   `json:"source"`
}

// Source identifies where a citation came from.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NewStatus creates a status event with a generated ID and timestamp.
func NewStatus(description string, done bool) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      TypeStatus,
		Timestamp: float64(time.Now().Unix()),
		Status: &Status{
			Description: description,
			Done:        done,
		},
	}
}

// NewCitation creates a citation event with a generated ID and timestamp.
func NewCitation(content, title, url string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      TypeCitation,
		Timestamp: float64(time.Now().Unix()),
		Citation: &Citation{
			Document: []string{content},
			Source:   Source{Name: title, URL: url},
		},
	}
}

// Emitter is the sink callable supplied by the host runtime to receive
// events. A nil Emitter means the host did not ask for notifications.
type Emitter func(ctx context.Context, evt *Event) error

// emitterKey is the context key type for the host-supplied emitter.
type emitterKey struct{}

// NewContext returns a context carrying the given emitter. The host runtime
// injects the emitter before invoking a tool.
func NewContext(ctx context.Context, emitter Emitter) context.Context {
	return context.WithValue(ctx, emitterKey{}, emitter)
}

// EmitterFromContext retrieves the emitter from context.
// Returns the emitter and true if found, nil and false otherwise.
func EmitterFromContext(ctx context.Context) (Emitter, bool) {
	emitter, ok := ctx.Value(emitterKey{}).(Emitter)
	return emitter, ok
}
