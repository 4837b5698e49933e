package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MetadataSessionID names the shopper session an event belongs to. It is
// copied into the message headers so consumers can route on it without
// decoding the payload.
const MetadataSessionID = "session_id"

// ErrNoAggregateID is returned for events that would have no partition key.
var ErrNoAggregateID = errors.New("event has no aggregate id")

// Event is the JSON envelope around every published payload. AggregateID is
// also the message key.
type Event struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	AggregateID   string            `json:"aggregate_id"`
	AggregateType string            `json:"aggregate_type"`
	SchemaVersion int               `json:"version"`
	OccurredAt    time.Time         `json:"timestamp"`
	Source        string            `json:"source"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEvent encodes data and wraps it in an envelope stamped now.
func NewEvent(eventType, aggregateID, aggregateType, source string, data any) (*Event, error) {
	if aggregateID == "" {
		return nil, fmt.Errorf("%s: %w", eventType, ErrNoAggregateID)
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	return &Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		SchemaVersion: 1,
		OccurredAt:    time.Now().UTC(),
		Source:        source,
		Data:          payload,
	}, nil
}

// WithCorrelationID sets the correlation id.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// WithSession tags the event with the shopper session it concerns.
func (e *Event) WithSession(sessionID string) *Event {
	if sessionID == "" {
		return e
	}
	if e.Metadata == nil {
		e.Metadata = map[string]string{}
	}
	e.Metadata[MetadataSessionID] = sessionID
	return e
}

// SessionID returns the tagged session, or "".
func (e *Event) SessionID() string {
	return e.Metadata[MetadataSessionID]
}

// headers lists the envelope fields consumers filter on, followed by the
// metadata in key order.
func (e *Event) headers() []kafka.Header {
	h := []kafka.Header{
		{Key: "event_type", Value: []byte(e.EventType)},
		{Key: "source", Value: []byte(e.Source)},
	}
	if e.CorrelationID != "" {
		h = append(h, kafka.Header{Key: "correlation_id", Value: []byte(e.CorrelationID)})
	}
	for _, k := range slices.Sorted(maps.Keys(e.Metadata)) {
		h = append(h, kafka.Header{Key: k, Value: []byte(e.Metadata[k])})
	}
	return h
}
