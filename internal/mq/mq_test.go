package mq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailtrack/apiserver/config"
)

type recordingBackend struct {
	channel string
	data    []byte
	attrs   map[string]string
	closed  bool
}

func (b *recordingBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	b.channel = channel
	b.data = data
	b.attrs = attrs
	return "msg-1", nil
}

func (b *recordingBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return handler(ctx, Message{ID: "msg-1", Data: b.data, Attributes: b.attrs})
}

func (b *recordingBackend) Close() error {
	b.closed = true
	return nil
}

func TestMQ_DelegatesToBackend(t *testing.T) {
	backend := &recordingBackend{}
	queue := New(backend)

	id, err := queue.Publish(context.Background(), "crm.records", []byte(`{"type":"lead.created"}`), map[string]string{"event_type": "lead.created"})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "crm.records", backend.channel)

	var got Message
	err = queue.Subscribe(context.Background(), "crm.records", func(_ context.Context, msg Message) error {
		got = msg
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "lead.created", got.Attributes["event_type"])
	assert.JSONEq(t, `{"type":"lead.created"}`, string(got.Data))

	require.NoError(t, queue.Close())
	assert.True(t, backend.closed)
}

func TestMQ_SubscribeHandlerError(t *testing.T) {
	queue := New(&recordingBackend{})
	boom := errors.New("boom")
	err := queue.Subscribe(context.Background(), "crm.records", func(context.Context, Message) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestHeadersToAttributes(t *testing.T) {
	assert.Nil(t, headersToAttributes(nil))

	attrs := headersToAttributes(amqp.Table{
		"event_type": "task.updated",
		"raw":        []byte("bytes"),
		"attempt":    int32(3),
	})
	assert.Equal(t, map[string]string{
		"event_type": "task.updated",
		"raw":        "bytes",
		"attempt":    "3",
	}, attrs)
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open(context.Background(), config.MQConfig{Backend: "kafka"})
	assert.EqualError(t, err, `unsupported mq backend "kafka"`)

	_, err = Open(context.Background(), config.MQConfig{Backend: "rabbitmq"})
	assert.EqualError(t, err, "rabbitmq url is required")

	_, err = Open(context.Background(), config.MQConfig{Backend: "pubsub"})
	assert.EqualError(t, err, "pubsub project id is required")
}

func TestFilter_Match(t *testing.T) {
	filter := Filter{Attribute: "event_type", Values: []string{"lead.closed_won", "lead.closed_lost"}}

	assert.True(t, filter.Match(map[string]string{"event_type": "lead.closed_won"}))
	assert.False(t, filter.Match(map[string]string{"event_type": "lead.updated"}))
	assert.False(t, filter.Match(nil))
	assert.True(t, Filter{}.Match(nil))
	assert.True(t, Filter{Attribute: "event_type"}.IsZero())
}

func TestMQ_SubscribeFilteredSkipsOnClient(t *testing.T) {
	backend := &recordingBackend{attrs: map[string]string{"event_type": "lead.updated"}}
	queue := New(backend)
	filter := Filter{Attribute: "event_type", Values: []string{"lead.closed_won"}}

	called := false
	err := queue.SubscribeFiltered(context.Background(), "crm.records", filter, func(context.Context, Message) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)

	backend.attrs = map[string]string{"event_type": "lead.closed_won"}
	err = queue.SubscribeFiltered(context.Background(), "crm.records", filter, func(context.Context, Message) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

type brokerFilteringBackend struct {
	recordingBackend
	filter Filter
}

func (b *brokerFilteringBackend) SubscribeFiltered(_ context.Context, _ string, filter Filter, _ Handler) error {
	b.filter = filter
	return nil
}

func TestMQ_SubscribeFilteredPrefersBroker(t *testing.T) {
	backend := &brokerFilteringBackend{}
	filter := Filter{Attribute: "event_type", Values: []string{"task.created"}}

	require.NoError(t, New(backend).SubscribeFiltered(context.Background(), "crm.records", filter, nil))
	assert.Equal(t, filter, backend.filter)
}

func TestPubSub_FilterExpression(t *testing.T) {
	assert.Empty(t, filterExpression(Filter{}))
	assert.Equal(t,
		`attributes.event_type = "lead.created" OR attributes.event_type = "lead.updated"`,
		filterExpression(Filter{Attribute: "event_type", Values: []string{"lead.created", "lead.updated"}}),
	)
}

func TestPubSub_SubscriptionNamePerFilter(t *testing.T) {
	client := &PubSubClient{subscriptionSuffix: "-sub"}
	won := Filter{Attribute: "event_type", Values: []string{"lead.closed_won"}}
	lost := Filter{Attribute: "event_type", Values: []string{"lead.closed_lost"}}

	assert.Equal(t, "crm.records-sub", client.subscriptionName("crm.records", Filter{}))
	assert.Regexp(t, `^crm\.records-sub-[0-9a-f]{8}$`, client.subscriptionName("crm.records", won))
	assert.Equal(t, client.subscriptionName("crm.records", won), client.subscriptionName("crm.records", won))
	assert.NotEqual(t, client.subscriptionName("crm.records", won), client.subscriptionName("crm.records", lost))
}
