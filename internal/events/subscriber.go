package events

import (
	"encoding/json"
	"fmt"
)

// Message is a raw event as received from the bus.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}

// Decode unmarshals the message payload into the event type registered for
// its topic and returns a pointer to it.
func Decode(msg Message) (any, error) {
	var ev any
	switch msg.Topic {
	case TopicPottyCreated:
		ev = &PottyCreated{}
	case TopicPottyUpdated:
		ev = &PottyUpdated{}
	case TopicPottyStatusChanged:
		ev = &PottyStatusChanged{}
	case TopicSubscriberCreated:
		ev = &SubscriberCreated{}
	case TopicSubscriberDeleted:
		ev = &SubscriberDeleted{}
	case TopicSubscriberPruned:
		ev = &SubscriberPruned{}
	default:
		return nil, fmt.Errorf("unknown topic %q", msg.Topic)
	}
	if err := json.Unmarshal(msg.Data, ev); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", msg.Topic, err)
	}
	return ev, nil
}
