// Package client provides the interface the potty CLI uses to talk to the
// service, an HTTP/JSON implementation of it, and a gRPC health probe.
package client

import (
	"context"

	"github.com/alfredjeanlab/potties/internal/model"
)

// PottyClient is the set of operations the CLI needs.
type PottyClient interface {
	ListPotties(ctx context.Context, status string) ([]*model.Potty, error)
	GetPotty(ctx context.Context, id int64) (*model.Potty, error)
	CreatePotty(ctx context.Context, req *CreatePottyRequest) (*model.Potty, error)
	SetStatus(ctx context.Context, id int64, status string) (*model.Potty, error)

	ListSubscribers(ctx context.Context) ([]*model.Subscriber, error)
	Subscribe(ctx context.Context, url string) (*model.Subscriber, error)
	Unsubscribe(ctx context.Context, id int64) error

	Health(ctx context.Context) (string, error)

	Close() error
}

// CreatePottyRequest holds parameters for creating a potty.
type CreatePottyRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
}
