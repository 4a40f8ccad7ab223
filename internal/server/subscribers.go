package server

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/potties/internal/events"
	"github.com/alfredjeanlab/potties/internal/model"
)

// createSubscriber registers a webhook URL and publishes SubscriberCreated.
func (s *PottyServer) createSubscriber(ctx context.Context, url string) (*model.Subscriber, error) {
	sub := &model.Subscriber{URL: url}
	if err := model.ValidateSubscriber(sub); err != nil {
		return nil, inputError(err.Error())
	}
	if err := s.store.CreateSubscriber(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	s.publish(ctx, events.TopicSubscriberCreated, events.SubscriberCreated{Subscriber: sub})
	return sub, nil
}

func (s *PottyServer) getSubscriber(ctx context.Context, id int64) (*model.Subscriber, error) {
	return s.store.GetSubscriber(ctx, id)
}

func (s *PottyServer) listSubscribers(ctx context.Context) ([]*model.Subscriber, error) {
	subs, err := s.store.ListSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	if subs == nil {
		subs = []*model.Subscriber{}
	}
	return subs, nil
}

// deleteSubscriber removes a subscriber. A missing id yields sql.ErrNoRows.
func (s *PottyServer) deleteSubscriber(ctx context.Context, id int64) error {
	if err := s.store.DeleteSubscriber(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.TopicSubscriberDeleted, events.SubscriberDeleted{SubscriberID: id})
	return nil
}
