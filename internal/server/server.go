package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/potties/internal/events"
	"github.com/alfredjeanlab/potties/internal/metrics"
	"github.com/alfredjeanlab/potties/internal/model"
	"github.com/alfredjeanlab/potties/internal/notify"
	"github.com/alfredjeanlab/potties/internal/store"
)

// Notifier fans a status change out to subscribers.
type Notifier interface {
	Dispatch(ctx context.Context, change model.StatusChange) notify.Report
}

// Options configures optional PottyServer collaborators.
type Options struct {
	Publisher events.Publisher // defaults to events.NoopPublisher
	Notifier  Notifier         // defaults to a notify.Dispatcher over the store
	Metrics   *metrics.Metrics // nil disables metrics
	Logger    *slog.Logger     // defaults to slog.Default()
}

// PottyServer implements the potty and subscriber operations and serves them
// over HTTP.
type PottyServer struct {
	store     store.Store
	publisher events.Publisher
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger

	updates keyedMutex
	hub     *eventHub
}

// NewPottyServer returns a PottyServer backed by the given store.
func NewPottyServer(s store.Store, opts Options) *PottyServer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Publisher == nil {
		opts.Publisher = &events.NoopPublisher{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.New(s, notify.Config{Logger: opts.Logger, Metrics: opts.Metrics})
	}
	return &PottyServer{
		store:     s,
		publisher: opts.Publisher,
		notifier:  opts.Notifier,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		hub:       newEventHub(),
	}
}

// publish emits an event to the bus and to /api/events clients. Failures are
// logged and never reach the caller.
func (s *PottyServer) publish(ctx context.Context, topic string, event any) {
	s.broadcastEvent(topic, event)
	if err := s.publisher.Publish(context.WithoutCancel(ctx), topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
