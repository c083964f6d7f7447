package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestMultiPublishesToAllAndJoinsErrors(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("broker down")}
	m := Multi{ok, nil, failing}

	err := m.Publish(context.Background(), New(OrderCreated, 3, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Len(t, ok.events, 1)
	assert.Len(t, failing.events, 1)
}

func TestEventForDelivery(t *testing.T) {
	e := New(DeliveryLocation, 9, map[string]float64{"lat": -23.5}).ForDelivery("tok")
	assert.Equal(t, "tok", e.DeliveryToken)

	// the capability token never leaves through serialized events
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "tok")
}

func TestKafkaPublisherSendsKeyedMessage(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var e Event
		if err := json.Unmarshal(val, &e); err != nil {
			return err
		}
		if e.Type != DeliveryStatus || e.OrderID != 42 {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	p := NewKafkaPublisherWithProducer(producer, "burger-events")
	require.NoError(t, p.Publish(context.Background(), New(DeliveryStatus, 42, nil)))
	require.NoError(t, p.Close())
}

func TestKafkaPublisherReturnsSendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(producer, "burger-events")
	err := p.Publish(context.Background(), New(OrderCreated, 1, nil))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

// blockingSink holds every publish until release is closed.
type blockingSink struct {
	started chan struct{}
	release chan struct{}

	mu       sync.Mutex
	events   []Event
	deadline bool
}

func newBlockingSink() *blockingSink {
	return &blockingSink{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (b *blockingSink) Publish(ctx context.Context, e Event) error {
	b.started <- struct{}{}
	<-b.release
	_, ok := ctx.Deadline()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	b.deadline = ok
	return nil
}

func (b *blockingSink) received() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}

func TestAsyncDoesNotWaitForSlowSink(t *testing.T) {
	sink := newBlockingSink()
	a := NewAsync(Multi{Nop{}, sink}, 8, time.Second)

	start := time.Now()
	for i := uint(1); i <= 3; i++ {
		require.NoError(t, a.Publish(context.Background(), New(DeliveryLocation, i, nil)))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Empty(t, sink.received())

	close(sink.release)
	require.NoError(t, a.Close())

	got := sink.received()
	require.Len(t, got, 3)
	for i, e := range got {
		assert.Equal(t, uint(i+1), e.OrderID, "events keep their order")
	}
	assert.True(t, sink.deadline, "sinks get a bounded context")
}

func TestAsyncDropsWhenQueueIsFull(t *testing.T) {
	sink := newBlockingSink()
	a := NewAsync(sink, 1, time.Second)
	ctx := context.Background()

	require.NoError(t, a.Publish(ctx, New(OrderCreated, 1, nil)))
	<-sink.started
	require.NoError(t, a.Publish(ctx, New(OrderCreated, 2, nil)))
	assert.ErrorIs(t, a.Publish(ctx, New(OrderCreated, 3, nil)), ErrQueueFull)

	close(sink.release)
	require.NoError(t, a.Close())
	assert.Len(t, sink.received(), 2)
}

func TestAsyncRefusesAfterClose(t *testing.T) {
	rec := &recorder{}
	a := NewAsync(rec, 4, time.Second)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	assert.ErrorIs(t, a.Publish(context.Background(), New(OrderCreated, 1, nil)), ErrClosed)
	assert.Empty(t, rec.events)
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	closed   bool
}

func (c *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.key = key
	c.msg = msg
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestAMQPPublisherRoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{exchange: "burger.events", ch: ch}

	e := New(OrderStatusChanged, 7, map[string]string{"status": "PRONTO"}).ForDelivery("secret-token")
	require.NoError(t, p.Publish(context.Background(), e))

	assert.Equal(t, "burger.events", ch.exchange)
	assert.Equal(t, OrderStatusChanged, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), ch.msg.DeliveryMode)
	assert.NotContains(t, string(ch.msg.Body), "secret-token")

	var body Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, OrderStatusChanged, body.Type)
	assert.Equal(t, uint(7), body.OrderID)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
