package store

import (
	"context"

	"github.com/alfredjeanlab/potties/internal/model"
)

// Store defines the persistence interface for potties and subscribers.
// Lookups and mutations of a missing record return sql.ErrNoRows.
type Store interface {
	// Potties
	CreatePotty(ctx context.Context, p *model.Potty) error
	GetPotty(ctx context.Context, id int64) (*model.Potty, error)
	ListPotties(ctx context.Context, filter model.PottyFilter) ([]*model.Potty, error)
	UpdatePotty(ctx context.Context, p *model.Potty) error

	// Subscribers
	CreateSubscriber(ctx context.Context, s *model.Subscriber) error
	GetSubscriber(ctx context.Context, id int64) (*model.Subscriber, error)
	ListSubscribers(ctx context.Context) ([]*model.Subscriber, error)
	DeleteSubscriber(ctx context.Context, id int64) error

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
