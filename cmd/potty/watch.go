package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/potties/internal/events"
	"github.com/alfredjeanlab/potties/internal/model"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Follow potty status changes",
	GroupID: "potties",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("POTTY_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		if natsURL != "" {
			return watchNATS(ctx, natsURL, out)
		}
		return watchPoll(ctx, interval, out)
	},
}

// watchNATS prints every status change published on the event bus.
func watchNATS(ctx context.Context, natsURL string, out io.Writer) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.TopicPottyStatusChanged)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			ev, err := events.Decode(msg)
			if err != nil {
				log.Printf("skipping event: %v", err)
				continue
			}
			if sc, ok := ev.(*events.PottyStatusChanged); ok {
				printStatusChange(out, sc.Change)
			}
		}
	}
}

// watchPoll lists potties every interval and prints the ones whose status
// differs from the previous poll.
func watchPoll(ctx context.Context, interval time.Duration, out io.Writer) error {
	seen := make(map[int64]model.Status)
	first := true
	for {
		potties, err := pottyClient.ListPotties(ctx, "")
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("listing potties: %w", err)
		}
		for _, c := range diffStatuses(seen, potties) {
			if !first {
				printStatusChange(out, c)
			}
		}
		first = false

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// diffStatuses updates seen from potties and returns the changes since the
// previous call. Potties not seen before are recorded without a change.
func diffStatuses(seen map[int64]model.Status, potties []*model.Potty) []model.StatusChange {
	var changes []model.StatusChange
	for _, p := range potties {
		old, ok := seen[p.ID]
		seen[p.ID] = p.Status
		if ok && old != p.Status {
			changes = append(changes, model.NewStatusChange(old, p))
		}
	}
	return changes
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "poll interval when NATS is not configured")
	watchCmd.Flags().String("nats", "", "NATS URL (default POTTY_NATS_URL or the active remote)")
}
