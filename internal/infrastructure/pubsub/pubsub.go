// Package pubsub provides the in-process publisher fanning out the engine's
// notifications to subscribers.
package pubsub

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/curvex-network/curvex-daemon/internal/core/ports"
)

// Event is a published notification along with its topic.
type Event struct {
	Topic   string
	Payload json.RawMessage
}

// Service is an in-process implementation of ports.Publisher. Subscribers
// receive events on buffered channels; a slow subscriber drops events rather
// than blocking the publishing operation.
type Service struct {
	subscribers map[string][]chan Event
	lock        sync.RWMutex
}

// NewService returns a publisher with no subscribers.
func NewService() *Service {
	return &Service{subscribers: map[string][]chan Event{}}
}

var _ ports.Publisher = (*Service)(nil)

// Subscribe returns a channel receiving all events published for the topic.
func (s *Service) Subscribe(topic string) <-chan Event {
	s.lock.Lock()
	defer s.lock.Unlock()

	ch := make(chan Event, 32)
	s.subscribers[topic] = append(s.subscribers[topic], ch)
	return ch
}

// Publish serializes the payload and fans it out to the topic's subscribers.
func (s *Service) Publish(topic string, payload interface{}) error {
	message, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	log.WithField("topic", topic).Debugf("publish %s", string(message))

	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, ch := range s.subscribers[topic] {
		select {
		case ch <- Event{Topic: topic, Payload: message}:
		default:
			log.WithField("topic", topic).Warn("dropping event for slow subscriber")
		}
	}
	return nil
}
