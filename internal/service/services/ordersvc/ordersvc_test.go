package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webshop-labs/order-intake/internal/dal/interfaces/iorderitemrepo"
	"github.com/webshop-labs/order-intake/internal/dal/interfaces/iorderrepo"
	"github.com/webshop-labs/order-intake/internal/dal/interfaces/ioutboxrepo"
	"github.com/webshop-labs/order-intake/internal/service/models/event"
	"github.com/webshop-labs/order-intake/internal/service/models/order"
	"github.com/webshop-labs/order-intake/internal/service/models/orderitem"
	"github.com/webshop-labs/order-intake/internal/service/models/outbox"
)

type fakeOrderRepo struct {
	insertErr error
	inserted  []order.Order
	queryRes  []order.Order
}

func (f *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	if f.insertErr != nil {
		return order.Order{}, f.insertErr
	}
	o.ID = int64(len(f.inserted)) + 42
	f.inserted = append(f.inserted, o)

	return o, nil
}

func (f *fakeOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return f.queryRes, nil
}

type fakeOrderItemRepo struct {
	insertErr error
	inserted  []orderitem.OrderItem
	queryRes  []orderitem.OrderItem
}

func (f *fakeOrderItemRepo) BulkInsert(
	_ context.Context,
	items []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	for i := range items {
		items[i].ID = int64(i) + 1
	}
	f.inserted = append(f.inserted, items...)

	return items, nil
}

func (f *fakeOrderItemRepo) Query(
	_ context.Context,
	_ *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	return f.queryRes, nil
}

type fakeOutboxRepo struct {
	insertErr error
	inserted  []outbox.OutboxMessage
}

func (f *fakeOutboxRepo) Insert(_ context.Context, msg outbox.OutboxMessage) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, msg)

	return nil
}

func (f *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.OutboxMessage, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) Delete(_ context.Context, _ int64) error { return nil }

func (f *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

// fakeUOW mirrors the real unit of work: Rollback after Commit is a no-op.
type fakeUOW struct {
	orderRepo     *fakeOrderRepo
	orderItemRepo *fakeOrderItemRepo
	outboxRepo    *fakeOutboxRepo

	beginErr   error
	commitErr  error
	began      bool
	committed  bool
	rolledBack bool
}

func (f *fakeUOW) Begin(_ context.Context) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.began = true

	return nil
}

func (f *fakeUOW) Commit(_ context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true

	return nil
}

func (f *fakeUOW) Rollback(_ context.Context) error {
	if f.began && !f.committed {
		f.rolledBack = true
	}

	return nil
}

func (f *fakeUOW) OrderRepository() iorderrepo.IOrderRepository { return f.orderRepo }

func (f *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return f.orderItemRepo
}

func (f *fakeUOW) OutboxRepository() ioutboxrepo.IOutboxRepository { return f.outboxRepo }

func newFakeUOW() *fakeUOW {
	return &fakeUOW{
		orderRepo:     &fakeOrderRepo{},
		orderItemRepo: &fakeOrderItemRepo{},
		outboxRepo:    &fakeOutboxRepo{},
	}
}

func newTestService(work *fakeUOW) *OrderService {
	return MustNewOrderService(withUnitOfWorkFactory(func() unitOfWork { return work }))
}

func validOrder() order.Order {
	return order.Order{
		UserID: 7,
		Total:  999.99,
		OrderItems: []orderitem.OrderItem{
			{ProductID: 1, Quantity: 1, Price: 999.99},
		},
	}
}

func TestOrderService_CreateOrder_PersistsOrderItemsAndTask(t *testing.T) {
	t.Parallel()

	work := newFakeUOW()
	svc := newTestService(work)

	created, err := svc.CreateOrder(context.Background(), validOrder())
	require.NoError(t, err)

	assert.True(t, work.committed)
	assert.False(t, work.rolledBack)

	assert.EqualValues(t, 42, created.ID)
	assert.EqualValues(t, 7, created.UserID)
	assert.Equal(t, order.StatusPending, created.Status)
	assert.InDelta(t, 999.99, created.Total, 0.001)

	require.Len(t, work.orderItemRepo.inserted, 1)
	item := work.orderItemRepo.inserted[0]
	assert.Equal(t, created.ID, item.OrderID)
	assert.EqualValues(t, 1, item.ProductID)
	assert.Equal(t, 1, item.Quantity)
	assert.InDelta(t, 999.99, item.Price, 0.001)

	require.Len(t, work.outboxRepo.inserted, 1)
	msg := work.outboxRepo.inserted[0]
	assert.Equal(t, "application/json", msg.ContentType)

	var evt event.OrderCreated
	require.NoError(t, json.Unmarshal(msg.Payload, &evt))
	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, created.ID, evt.OrderID)
	assert.EqualValues(t, 7, evt.UserID)
	assert.Equal(t, order.StatusPending.String(), evt.Status)
	require.Len(t, evt.Items, 1)
	assert.EqualValues(t, 1, evt.Items[0].ProductID)
}

func TestOrderService_CreateOrder_BindsItemsInInputOrder(t *testing.T) {
	t.Parallel()

	work := newFakeUOW()
	svc := newTestService(work)

	o := validOrder()
	o.OrderItems = []orderitem.OrderItem{
		{ProductID: 3, Quantity: 2, Price: 10},
		{ProductID: 1, Quantity: 1, Price: 20},
		{ProductID: 2, Quantity: 5, Price: 30},
	}

	created, err := svc.CreateOrder(context.Background(), o)
	require.NoError(t, err)
	require.Len(t, created.OrderItems, 3)

	productIDs := make([]int64, 0, 3)
	for _, item := range work.orderItemRepo.inserted {
		assert.Equal(t, created.ID, item.OrderID)
		productIDs = append(productIDs, item.ProductID)
	}
	assert.Equal(t, []int64{3, 1, 2}, productIDs)
}

func TestOrderService_CreateOrder_RollsBackOnItemInsertFailure(t *testing.T) {
	t.Parallel()

	work := newFakeUOW()
	work.orderItemRepo.insertErr = errors.New("connection reset")
	svc := newTestService(work)

	_, err := svc.CreateOrder(context.Background(), validOrder())
	require.Error(t, err)

	assert.True(t, work.rolledBack)
	assert.False(t, work.committed)
	assert.Empty(t, work.outboxRepo.inserted, "no task may be enqueued for a rolled-back order")
}

func TestOrderService_CreateOrder_RollsBackOnOutboxFailure(t *testing.T) {
	t.Parallel()

	work := newFakeUOW()
	work.outboxRepo.insertErr = errors.New("disk full")
	svc := newTestService(work)

	_, err := svc.CreateOrder(context.Background(), validOrder())
	require.Error(t, err)

	assert.True(t, work.rolledBack)
	assert.False(t, work.committed)
}

func TestOrderService_CreateOrder_ValidatesBeforeTransaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*order.Order)
	}{
		{name: "no items", mutate: func(o *order.Order) { o.OrderItems = nil }},
		{name: "missing user", mutate: func(o *order.Order) { o.UserID = 0 }},
		{name: "negative total", mutate: func(o *order.Order) { o.Total = -1 }},
		{name: "zero quantity", mutate: func(o *order.Order) { o.OrderItems[0].Quantity = 0 }},
		{name: "missing product", mutate: func(o *order.Order) { o.OrderItems[0].ProductID = 0 }},
		{name: "negative price", mutate: func(o *order.Order) { o.OrderItems[0].Price = -0.01 }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			work := newFakeUOW()
			svc := newTestService(work)

			o := validOrder()
			tt.mutate(&o)

			_, err := svc.CreateOrder(context.Background(), o)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.False(t, work.began, "storage must not be touched on invalid input")
		})
	}
}

func TestOrderService_GetOrders_StitchesItems(t *testing.T) {
	t.Parallel()

	work := newFakeUOW()
	work.orderRepo.queryRes = []order.Order{
		{ID: 1, UserID: 7, Status: order.StatusPending},
		{ID: 2, UserID: 8, Status: order.StatusPending},
	}
	work.orderItemRepo.queryRes = []orderitem.OrderItem{
		{ID: 10, OrderID: 1, ProductID: 1, Quantity: 1},
		{ID: 11, OrderID: 2, ProductID: 2, Quantity: 2},
		{ID: 12, OrderID: 1, ProductID: 3, Quantity: 3},
	}
	svc := newTestService(work)

	orders, err := svc.GetOrders(context.Background(), order.QueryOrdersModel{})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Len(t, orders[0].OrderItems, 2)
	assert.Len(t, orders[1].OrderItems, 1)
	assert.EqualValues(t, 1, orders[0].OrderItems[0].OrderID)
	assert.EqualValues(t, 2, orders[1].OrderItems[0].OrderID)
}
