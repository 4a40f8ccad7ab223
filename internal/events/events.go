package events

import (
	"context"

	"github.com/alfredjeanlab/potties/internal/model"
)

// Event topic constants
const (
	TopicPottyCreated       = "potties.potty.created"
	TopicPottyUpdated       = "potties.potty.updated"
	TopicPottyStatusChanged = "potties.potty.status_changed"

	TopicSubscriberCreated = "potties.subscriber.created"
	TopicSubscriberDeleted = "potties.subscriber.deleted"
	TopicSubscriberPruned  = "potties.subscriber.pruned"

	// TopicAll matches every topic above.
	TopicAll = "potties.>"
)

// Event types

type PottyCreated struct {
	Potty *model.Potty `json:"potty"`
}

type PottyUpdated struct {
	Potty   *model.Potty   `json:"potty"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

// PottyStatusChanged mirrors the webhook body and adds the delivery summary.
type PottyStatusChanged struct {
	Change    model.StatusChange `json:"change"`
	Delivered int                `json:"delivered"`
	Rejected  int                `json:"rejected"`
	Pruned    int                `json:"pruned"`
}

type SubscriberCreated struct {
	Subscriber *model.Subscriber `json:"subscriber"`
}

type SubscriberDeleted struct {
	SubscriberID int64 `json:"subscriber_id"`
}

// SubscriberPruned is emitted when a subscriber is removed after a failed delivery.
type SubscriberPruned struct {
	SubscriberID int64  `json:"subscriber_id"`
	URL          string `json:"url"`
	Error        string `json:"error"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
