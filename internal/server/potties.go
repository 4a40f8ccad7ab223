package server

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/potties/internal/events"
	"github.com/alfredjeanlab/potties/internal/model"
	"github.com/alfredjeanlab/potties/internal/store"
)

// createPottyInput holds transport-agnostic parameters for creating a potty.
type createPottyInput struct {
	Status   string
	Location string
}

// updatePottyInput holds the optional fields of a partial update. A nil
// Status leaves the potty unchanged. bodyErr carries a decode failure that is
// only reported once the potty is known to exist.
type updatePottyInput struct {
	Status  *string
	bodyErr error
}

// listPotties returns all potties, optionally restricted to one status.
// status is the raw query value; hasStatus distinguishes "absent" from "empty".
func (s *PottyServer) listPotties(ctx context.Context, status string, hasStatus bool) ([]*model.Potty, error) {
	var filter model.PottyFilter
	if hasStatus {
		st, err := model.ParseStatus(status)
		if err != nil {
			return nil, inputError(err.Error())
		}
		filter.Status = st
	}
	potties, err := s.store.ListPotties(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list potties: %w", err)
	}
	if potties == nil {
		potties = []*model.Potty{}
	}
	return potties, nil
}

func (s *PottyServer) getPotty(ctx context.Context, id int64) (*model.Potty, error) {
	return s.store.GetPotty(ctx, id)
}

// createPotty validates input, persists a new potty and publishes PottyCreated.
func (s *PottyServer) createPotty(ctx context.Context, in createPottyInput) (*model.Potty, error) {
	p := &model.Potty{
		Status:   model.Status(in.Status),
		Location: model.Location(in.Location),
	}
	if err := model.ValidatePotty(p); err != nil {
		return nil, inputError(err.Error())
	}

	if err := s.store.CreatePotty(ctx, p); err != nil {
		return nil, fmt.Errorf("create potty: %w", err)
	}

	s.publish(ctx, events.TopicPottyCreated, events.PottyCreated{Potty: p})
	return p, nil
}

// updatePotty applies a partial update and, when the status actually changed,
// notifies subscribers before returning. Updates to the same id are
// serialized so the prior status seen here is the one the change replaced.
func (s *PottyServer) updatePotty(ctx context.Context, id int64, in updatePottyInput) (*model.Potty, error) {
	unlock := s.updates.Lock(id)
	defer unlock()

	var (
		prior   model.Status
		updated *model.Potty
	)
	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		p, err := tx.GetPotty(ctx, id)
		if err != nil {
			return err
		}
		if in.bodyErr != nil {
			return in.bodyErr
		}
		prior = p.Status
		updated = p
		if in.Status == nil {
			return nil
		}

		st, err := model.ParseStatus(*in.Status)
		if err != nil {
			return inputError(err.Error())
		}
		if st == prior {
			return nil
		}
		p.Status = st
		return tx.UpdatePotty(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		s.publish(ctx, events.TopicPottyUpdated, events.PottyUpdated{
			Potty:   updated,
			Changes: map[string]any{"status": updated.Status},
		})
	}
	if updated.Status != prior {
		s.notifyStatusChange(ctx, prior, updated)
	}
	return updated, nil
}

// notifyStatusChange runs the subscriber fan-out and reports its outcome on
// the event bus. It never fails the update.
func (s *PottyServer) notifyStatusChange(ctx context.Context, prior model.Status, p *model.Potty) {
	change := model.NewStatusChange(prior, p)
	report := s.notifier.Dispatch(ctx, change)

	for _, pr := range report.Pruned {
		s.publish(ctx, events.TopicSubscriberPruned, events.SubscriberPruned{
			SubscriberID: pr.Subscriber.ID,
			URL:          pr.Subscriber.URL,
			Error:        pr.Err.Error(),
		})
	}
	s.publish(ctx, events.TopicPottyStatusChanged, events.PottyStatusChanged{
		Change:    change,
		Delivered: len(report.Delivered),
		Rejected:  len(report.Rejected),
		Pruned:    len(report.Pruned),
	})

	if n := report.Attempted(); n > 0 {
		s.logger.Info("status change dispatched",
			"potty_id", p.ID,
			"old_status", prior,
			"current_status", p.Status,
			"delivered", len(report.Delivered),
			"rejected", len(report.Rejected),
			"pruned", len(report.Pruned),
		)
	}
}
