package service

import (
	"context"
	"time"
)

// CatalogEventType names what happened to a user or listing.
type CatalogEventType string

const (
	EventUserRegistered CatalogEventType = "user.registered"
	EventProductCreated CatalogEventType = "product.created"
	EventProductUpdated CatalogEventType = "product.updated"
	EventProductDeleted CatalogEventType = "product.deleted"
)

// CatalogEvent is published after a successful write.
type CatalogEvent struct {
	ID         string           `json:"id"`
	Type       CatalogEventType `json:"type"`
	RequestID  string           `json:"request_id,omitempty"` // For distributed tracing
	UserID     string           `json:"user_id,omitempty"`
	ProductID  int64            `json:"product_id,omitempty"`
	FarmerID   string           `json:"farmer_id,omitempty"`
	Fields     []string         `json:"fields,omitempty"` // Changed fields for product.updated
	OccurredAt time.Time        `json:"occurred_at"`
}

// Key returns the partition key: the owning farmer for listings, the user otherwise.
func (e *CatalogEvent) Key() string {
	if e.FarmerID != "" {
		return e.FarmerID
	}

	return e.UserID
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// Publish delivers one event. It does not retry.
	Publish(ctx context.Context, event *CatalogEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
