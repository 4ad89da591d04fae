// Package ledger provides the append-only activity log owned by a catalog.
// Events are held in memory for the lifetime of the owning catalog; there
// is no removal API.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrPayloadEncoding is returned when an event payload cannot be encoded.
var ErrPayloadEncoding = errors.New("encode event payload")

// Event is one recorded activity. IDs are assigned sequentially starting
// at 1 and never reused.
type Event struct {
	ID         int64           `json:"id"`
	EventID    uuid.UUID       `json:"event_id"`
	EventType  string          `json:"event_type"`
	EventData  json.RawMessage `json:"event_data"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Ledger is an in-memory append-only event log.
type Ledger struct {
	mu     sync.Mutex
	events []Event
	tracer trace.Tracer
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		tracer: otel.Tracer("librarium/ledger"),
	}
}

// Append encodes the payload and records a new event. The log is left
// untouched when encoding fails.
func (l *Ledger) Append(ctx context.Context, eventType string, payload any) (Event, error) {
	_, span := l.tracer.Start(ctx, "ledger.append",
		trace.WithAttributes(
			attribute.String("event.type", eventType),
		),
	)
	defer span.End()

	data, err := jsoniter.ConfigFastest.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrPayloadEncoding, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	event := Event{
		ID:         int64(len(l.events)) + 1,
		EventID:    uuid.New(),
		EventType:  eventType,
		EventData:  data,
		OccurredAt: time.Now().UTC(),
	}
	l.events = append(l.events, event)

	span.SetAttributes(attribute.Int64("event.id", event.ID))
	return event, nil
}

// Events returns a copy of the full log in append order.
func (l *Ledger) Events(ctx context.Context) []Event {
	_, span := l.tracer.Start(ctx, "ledger.load")
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Event, len(l.events))
	copy(out, l.events)

	span.SetAttributes(attribute.Int("events.loaded", len(out)))
	return out
}

// EventsByType returns the events of one type in append order.
func (l *Ledger) EventsByType(ctx context.Context, eventType string) []Event {
	_, span := l.tracer.Start(ctx, "ledger.load_by_type",
		trace.WithAttributes(
			attribute.String("event.type", eventType),
		),
	)
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Event
	for _, event := range l.events {
		if event.EventType == eventType {
			out = append(out, event)
		}
	}

	span.SetAttributes(attribute.Int("events.loaded", len(out)))
	return out
}

// Len returns the number of recorded events.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
