// Package events publishes audit entries to an external event stream so
// downstream consumers (reporting, admin dashboards) can react without
// polling the store.
package events

import (
	"context"
	"time"
)

// AuditEvent is the wire form of an appended audit entry.
type AuditEvent struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Content  string    `json:"content"`
	Time     time.Time `json:"time"`
	Approved bool      `json:"approved"`
}

type Publisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event AuditEvent) error { return nil }

var _ Publisher = NoopPublisher{}
