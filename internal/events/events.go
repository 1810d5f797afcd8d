// Package events publishes notifications about finished simplifications to
// a message broker.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Publisher publishes messages to a subject/topic
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

// SimplificationCompleted is emitted after a simplified artifact is stored
type SimplificationCompleted struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalPoints   int       `json:"original_points"`
	SimplifiedPoints int       `json:"simplified_points"`
	Epsilon          float64   `json:"epsilon"`
	DurationMs       float64   `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// Marshal encodes the event as JSON
func (e SimplificationCompleted) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// NoopPublisher drops every message
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) error { return nil }
func (NoopPublisher) Close() error                                  { return nil }
