package services

import (
	"context"
	"encoding/json"

	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/types"
)

// EventPublisher announces committed record changes. Implementations must
// not fail the caller; delivery problems are theirs to report.
type EventPublisher interface {
	Publish(ctx context.Context, event types.RecordEvent)
}

// MessagePublisher is satisfied by *mq.MQ.
type MessagePublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

type queueEventPublisher struct {
	queue   MessagePublisher
	channel string
	logger  logging.Logger
}

// NewEventPublisher publishes record events as JSON on channel. A nil
// queue yields a publisher that drops every event.
func NewEventPublisher(queue MessagePublisher, channel string, logger logging.Logger) EventPublisher {
	if queue == nil {
		return NopEventPublisher()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &queueEventPublisher{
		queue:   queue,
		channel: channel,
		logger:  logger.With("component", "events", "channel", channel),
	}
}

func (p *queueEventPublisher) Publish(ctx context.Context, event types.RecordEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "encode record event", "type", event.Type, "error", err)
		return
	}
	id, err := p.queue.Publish(ctx, p.channel, data, map[string]string{types.EventTypeAttribute: event.Type})
	if err != nil {
		p.logger.Warn(ctx, "publish record event", "type", event.Type, "id", event.ID, "error", err)
		return
	}
	p.logger.Debug(ctx, "record event published", "type", event.Type, "message_id", id)
}

// NopEventPublisher returns a publisher that discards events.
func NopEventPublisher() EventPublisher {
	return nopEventPublisher{}
}

type nopEventPublisher struct{}

func (nopEventPublisher) Publish(context.Context, types.RecordEvent) {}
