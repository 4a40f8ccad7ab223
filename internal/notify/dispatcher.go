// Package notify fans status changes out to registered webhook subscribers.
//
// Delivery is attempted once per subscriber. A subscriber whose endpoint
// cannot be reached at the transport level is removed from the registry
// immediately; an endpoint that answers with any HTTP status, including an
// error status, is kept.
package notify

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alfredjeanlab/potties/internal/metrics"
	"github.com/alfredjeanlab/potties/internal/model"
)

// DefaultTimeout bounds a single webhook request.
const DefaultTimeout = 30 * time.Second

// SubscriberStore is the subset of the record store the dispatcher needs.
type SubscriberStore interface {
	ListSubscribers(ctx context.Context) ([]*model.Subscriber, error)
	DeleteSubscriber(ctx context.Context, id int64) error
}

// Config configures a Dispatcher.
type Config struct {
	// Client sends the webhook requests. Defaults to an http.Client with Timeout.
	Client  *http.Client
	Timeout time.Duration
	// Concurrency caps in-flight deliveries. Values below 2 deliver sequentially
	// in subscriber order.
	Concurrency int
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Dispatcher delivers StatusChange notifications.
type Dispatcher struct {
	store       SubscriberStore
	client      *http.Client
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// Pruned describes a subscriber removed during a dispatch.
type Pruned struct {
	Subscriber model.Subscriber
	Err        error
}

// Report summarizes one dispatch.
type Report struct {
	Delivered []int64  // 2xx responses
	Rejected  []int64  // completed with a non-2xx status; kept
	Pruned    []Pruned // transport failures; removed from the store
}

// Attempted returns the number of subscribers a request was attempted for.
func (r Report) Attempted() int {
	return len(r.Delivered) + len(r.Rejected) + len(r.Pruned)
}

// New creates a dispatcher reading subscribers from s.
func New(s SubscriberStore, cfg Config) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Dispatcher{
		store:       s,
		client:      cfg.Client,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// Dispatch POSTs change to every registered subscriber and blocks until each
// attempt has finished. It never returns an error: a failure to list
// subscribers is logged and yields an empty report.
//
// The caller's cancellation is not propagated to the outbound requests, so a
// client hanging up mid-request cannot cause healthy subscribers to be pruned.
func (d *Dispatcher) Dispatch(ctx context.Context, change model.StatusChange) Report {
	ctx = context.WithoutCancel(ctx)

	subs, err := d.store.ListSubscribers(ctx)
	if err != nil {
		d.logger.Error("listing subscribers for dispatch", "potty_id", change.ID, "error", err)
		return Report{}
	}
	if len(subs) == 0 {
		return Report{}
	}

	body, err := json.Marshal(change)
	if err != nil {
		d.logger.Error("encoding status change", "potty_id", change.ID, "error", err)
		return Report{}
	}

	var (
		mu     sync.Mutex
		report Report
	)
	record := func(sub *model.Subscriber, res result) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case res.err != nil:
			report.Pruned = append(report.Pruned, Pruned{Subscriber: *sub, Err: res.err})
		case res.status >= 200 && res.status < 300:
			report.Delivered = append(report.Delivered, sub.ID)
		default:
			report.Rejected = append(report.Rejected, sub.ID)
		}
	}

	if d.concurrency == 1 {
		for _, sub := range subs {
			record(sub, d.deliver(ctx, sub, body))
		}
		return report
	}

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for _, sub := range subs {
		g.Go(func() error {
			record(sub, d.deliver(ctx, sub, body))
			return nil
		})
	}
	_ = g.Wait()
	return report
}

type result struct {
	status int
	err    error
}

// deliver performs a single attempt and prunes the subscriber on transport
// failure.
func (d *Dispatcher) deliver(ctx context.Context, sub *model.Subscriber, body []byte) result {
	status, err := d.post(ctx, sub.URL, body)
	if err != nil {
		d.observe(metrics.OutcomeFailed)
		d.prune(ctx, sub, err)
		return result{err: err}
	}
	if status >= 200 && status < 300 {
		d.observe(metrics.OutcomeDelivered)
	} else {
		d.observe(metrics.OutcomeRejected)
	}
	return result{status: status}
}

func (d *Dispatcher) post(ctx context.Context, url string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (d *Dispatcher) prune(ctx context.Context, sub *model.Subscriber, cause error) {
	log := d.logger.With("subscriber_id", sub.ID, "url", sub.URL)

	err := d.store.DeleteSubscriber(ctx, sub.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Already removed by a concurrent dispatch or an explicit delete.
		log.Debug("subscriber already gone", "error", cause)
		return
	case err != nil:
		log.Error("pruning unreachable subscriber", "error", err, "cause", cause)
		return
	}

	log.Warn("pruned unreachable subscriber", "error", cause)
	if d.metrics != nil {
		d.metrics.SubscribersPruned.Inc()
	}
}

func (d *Dispatcher) observe(outcome string) {
	if d.metrics != nil {
		d.metrics.WebhookDeliveries.WithLabelValues(outcome).Inc()
	}
}
