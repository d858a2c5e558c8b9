package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/application"
	"github.com/route-planner/service-planner/internal/bridge"
	"github.com/route-planner/service-planner/internal/domain/route"
	"github.com/route-planner/service-planner/internal/platform/kafka"
)

type recordingPublisher struct {
	topic string
	key   string
	event kafka.CloudEvent
	err   error
}

func (p *recordingPublisher) PublishEventWithKey(_ context.Context, topic, key string, event kafka.CloudEvent) error {
	p.topic, p.key, p.event = topic, key, event
	return p.err
}

type recordingReceiver struct {
	payloads []string
}

func (r *recordingReceiver) ReceiveRouteDetails(_ context.Context, payload string) (*application.RouteDTO, error) {
	r.payloads = append(r.payloads, payload)
	return &application.RouteDTO{ID: len(r.payloads)}, nil
}

func TestRouteRequestPublisher_Dispatch(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewRouteRequestPublisher(pub, "route.requests", zap.NewNop())

	req := bridge.NewRouteRequest("6211AB", "6229HX", route.ModeBus, 300)
	require.NoError(t, p.Dispatch(context.Background(), req))

	assert.Equal(t, "route.requests", pub.topic)
	assert.Equal(t, req.RequestID, pub.key)
	assert.Equal(t, RouteRequested, pub.event.Type)
	assert.Equal(t, Source, pub.event.Source)

	var got bridge.RouteRequest
	require.NoError(t, pub.event.ParseData(&got))
	assert.Equal(t, "6211AB", got.Origin)
	require.NotNil(t, got.Range)
	assert.Equal(t, 300, *got.Range)
}

func TestRouteRequestPublisher_Error(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	p := NewRouteRequestPublisher(pub, "route.requests", zap.NewNop())

	err := p.Dispatch(context.Background(), bridge.NewRouteRequest("a", "b", route.ModeFoot, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func newTestConsumer(receiver RouteDetailsReceiver) *RouteDetailsConsumer {
	return &RouteDetailsConsumer{receiver: receiver, logger: zap.NewNop()}
}

func message(t *testing.T, eventType string, data any) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("backend", eventType, data)
	require.NoError(t, err)
	value, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: "route.details", Value: value}
}

func TestRouteDetailsConsumer_ObjectAndStringData(t *testing.T) {
	receiver := &recordingReceiver{}
	c := newTestConsumer(receiver)

	obj := map[string]any{"details": "walk", "mode": "foot", "time": 4, "distance": 300}
	require.NoError(t, c.handleMessage(context.Background(), message(t, RouteDetails, obj)))
	require.NoError(t, c.handleMessage(context.Background(), message(t, RouteDetails, `{"mode":"bike"}`)))

	require.Len(t, receiver.payloads, 2)
	assert.JSONEq(t, `{"details":"walk","mode":"foot","time":4,"distance":300}`, receiver.payloads[0])
	assert.Equal(t, `{"mode":"bike"}`, receiver.payloads[1])
}

func TestRouteDetailsConsumer_IgnoresOtherTypesAndGarbage(t *testing.T) {
	receiver := &recordingReceiver{}
	c := newTestConsumer(receiver)

	require.NoError(t, c.handleMessage(context.Background(), message(t, "route.cancelled", map[string]string{})))
	require.NoError(t, c.handleMessage(context.Background(), kafkago.Message{Value: []byte("not json")}))

	assert.Empty(t, receiver.payloads)
}
