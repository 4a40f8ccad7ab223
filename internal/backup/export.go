// Package backup periodically snapshots the record store as JSONL and ships
// the snapshot to one or more destinations.
package backup

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/alfredjeanlab/potties/internal/model"
)

// FormatVersion is written into every snapshot header.
const FormatVersion = "1"

// Source is the read side of the record store that a snapshot needs.
type Source interface {
	ListPotties(ctx context.Context, filter model.PottyFilter) ([]*model.Potty, error)
	ListSubscribers(ctx context.Context) ([]*model.Subscriber, error)
}

// Header is the first line of a snapshot.
type Header struct {
	Version         string    `json:"version"`
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	PottyCount      int       `json:"potty_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Record is every line after the header: a type discriminator plus payload.
type Record struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Record types.
const (
	TypeHeader     = "header"
	TypePotty      = "potty"
	TypeSubscriber = "subscriber"
)

// ExportJSONL writes a header line followed by every potty and then every
// subscriber, each group in ascending id order.
func ExportJSONL(ctx context.Context, src Source, w io.Writer) error {
	potties, err := src.ListPotties(ctx, model.PottyFilter{})
	if err != nil {
		return fmt.Errorf("list potties: %w", err)
	}
	subs, err := src.ListSubscribers(ctx)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}
	slices.SortFunc(potties, func(a, b *model.Potty) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(subs, func(a, b *model.Subscriber) int { return cmp.Compare(a.ID, b.ID) })

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(Header{
		Version:         FormatVersion,
		Type:            TypeHeader,
		Timestamp:       time.Now().UTC(),
		PottyCount:      len(potties),
		SubscriberCount: len(subs),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, p := range potties {
		if err := encodeRecord(enc, TypePotty, p); err != nil {
			return fmt.Errorf("encode potty %d: %w", p.ID, err)
		}
	}
	for _, s := range subs {
		if err := encodeRecord(enc, TypeSubscriber, s); err != nil {
			return fmt.Errorf("encode subscriber %d: %w", s.ID, err)
		}
	}
	return nil
}

func encodeRecord(enc *json.Encoder, typ string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return enc.Encode(Record{Type: typ, Data: data})
}
