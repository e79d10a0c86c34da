package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webshop-labs/order-intake/internal/service/models/outbox"
)

type fakeOutboxRepo struct {
	pending []outbox.OutboxMessage

	deleted []int64
	retried []retryCall
}

type retryCall struct {
	id         int64
	retryCount int
	lastError  string
}

func (f *fakeOutboxRepo) Insert(_ context.Context, _ outbox.OutboxMessage) error { return nil }

func (f *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.OutboxMessage, error) {
	return f.pending, nil
}

func (f *fakeOutboxRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)

	return nil
}

func (f *fakeOutboxRepo) UpdateRetry(
	_ context.Context,
	id int64,
	retryCount int,
	lastError string,
	_ time.Time,
) error {
	f.retried = append(f.retried, retryCall{id: id, retryCount: retryCount, lastError: lastError})

	return nil
}

type fakePublisher struct {
	err       error
	published []amqp.Publishing
	keys      []string
}

func (f *fakePublisher) Publish(_, routingKey string, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	f.keys = append(f.keys, routingKey)

	return nil
}

func pendingMessage(id int64) outbox.OutboxMessage {
	return outbox.OutboxMessage{
		ID:          id,
		RoutingKey:  "order.process",
		Payload:     []byte(`{"order_id":42}`),
		ContentType: "application/json",
		MaxRetries:  10,
	}
}

func TestWorker_PublishesAndDeletes(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []outbox.OutboxMessage{pendingMessage(1), pendingMessage(2)}}
	pub := &fakePublisher{}
	w := NewWorker(repo, pub)

	w.processMessages(context.Background())

	require.Len(t, pub.published, 2)
	assert.Equal(t, "application/json", pub.published[0].ContentType)
	assert.JSONEq(t, `{"order_id":42}`, string(pub.published[0].Body))
	assert.Equal(t, []string{"order.process", "order.process"}, pub.keys)

	assert.Equal(t, []int64{1, 2}, repo.deleted)
	assert.Empty(t, repo.retried)
}

func TestWorker_SchedulesRetryOnPublishFailure(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []outbox.OutboxMessage{pendingMessage(1)}}
	pub := &fakePublisher{err: errors.New("channel closed")}
	w := NewWorker(repo, pub)

	w.processMessages(context.Background())

	assert.Empty(t, repo.deleted, "failed messages stay in the outbox")
	require.Len(t, repo.retried, 1)
	assert.EqualValues(t, 1, repo.retried[0].id)
	assert.Equal(t, 1, repo.retried[0].retryCount)
	assert.Contains(t, repo.retried[0].lastError, "channel closed")
}

func TestWorker_NoPendingMessages(t *testing.T) {
	repo := &fakeOutboxRepo{}
	pub := &fakePublisher{}
	w := NewWorker(repo, pub)

	w.processMessages(context.Background())

	assert.Empty(t, pub.published)
	assert.Empty(t, repo.deleted)
	assert.Empty(t, repo.retried)
}
