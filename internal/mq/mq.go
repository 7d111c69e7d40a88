// Package mq publishes and consumes record events over RabbitMQ or Google
// Cloud Pub/Sub behind one interface.
package mq

import (
	"context"
	"fmt"

	"github.com/trailtrack/apiserver/config"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Filter narrows a subscription to messages whose Attribute equals one of
// Values. A Filter without an attribute or values matches everything.
type Filter struct {
	Attribute string
	Values    []string
}

// IsZero reports whether f matches every message.
func (f Filter) IsZero() bool {
	return f.Attribute == "" || len(f.Values) == 0
}

// Match reports whether attrs pass the filter.
func (f Filter) Match(attrs map[string]string) bool {
	if f.IsZero() {
		return true
	}
	got, ok := attrs[f.Attribute]
	if !ok {
		return false
	}
	for _, v := range f.Values {
		if got == v {
			return true
		}
	}
	return false
}

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ wraps a backend with a stable API.
type MQ struct {
	backend Backend
}

// New constructs an MQ wrapper for the provided backend.
func New(backend Backend) *MQ {
	return &MQ{backend: backend}
}

// Open connects to the backend named by cfg.Backend ("rabbitmq" or
// "pubsub").
func Open(ctx context.Context, cfg config.MQConfig) (*MQ, error) {
	switch cfg.Backend {
	case "rabbitmq":
		client, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return New(client), nil
	case "pubsub":
		client, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return New(client), nil
	default:
		return nil, fmt.Errorf("unsupported mq backend %q", cfg.Backend)
	}
}

// Publish sends a message to the named channel.
func (m *MQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return m.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe consumes messages from the named channel until ctx is done.
func (m *MQ) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return m.backend.Subscribe(ctx, channel, handler)
}

// FilteredSubscriber is implemented by backends that filter on the broker.
type FilteredSubscriber interface {
	SubscribeFiltered(ctx context.Context, channel string, filter Filter, handler Handler) error
}

// SubscribeFiltered is Subscribe restricted to messages matching filter.
// Backends without broker-side filtering acknowledge and skip the rest.
func (m *MQ) SubscribeFiltered(ctx context.Context, channel string, filter Filter, handler Handler) error {
	if filter.IsZero() {
		return m.backend.Subscribe(ctx, channel, handler)
	}
	if fs, ok := m.backend.(FilteredSubscriber); ok {
		return fs.SubscribeFiltered(ctx, channel, filter, handler)
	}
	return m.backend.Subscribe(ctx, channel, func(ctx context.Context, msg Message) error {
		if !filter.Match(msg.Attributes) {
			return nil
		}
		return handler(ctx, msg)
	})
}

// Close closes the underlying backend.
func (m *MQ) Close() error {
	return m.backend.Close()
}
