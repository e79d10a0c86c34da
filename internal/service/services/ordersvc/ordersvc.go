package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/webshop-labs/order-intake/internal/dal/interfaces/iorderitemrepo"
	"github.com/webshop-labs/order-intake/internal/dal/interfaces/iorderrepo"
	"github.com/webshop-labs/order-intake/internal/dal/interfaces/ioutboxrepo"
	"github.com/webshop-labs/order-intake/internal/dal/postgres"
	"github.com/webshop-labs/order-intake/internal/dal/uow"
	"github.com/webshop-labs/order-intake/internal/service/models/event"
	"github.com/webshop-labs/order-intake/internal/service/models/order"
	"github.com/webshop-labs/order-intake/internal/service/models/orderitem"
	"github.com/webshop-labs/order-intake/internal/service/models/outbox"
)

// ErrValidation marks failures that are the caller's fault and must be
// detected before any storage access.
var ErrValidation = errors.New("validation")

// OrderService is a service for managing orders.
type OrderService struct {
	pgClient *postgres.Client
	newUOW   func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		if s.pgClient == nil {
			panic("ordersvc: postgres client is not configured")
		}
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// withUnitOfWorkFactory overrides the unit of work constructor, used by tests.
func withUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// CreateOrder creates one order with its items and co-locates an
// order-created task in the outbox, all in a single transaction. The task
// is published asynchronously by the outbox worker, so it exists if and
// only if the order committed.
func (s *OrderService) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	if err := validateOrder(o); err != nil {
		return order.Order{}, err
	}

	now := time.Now()
	o.Status = order.StatusPending
	o.CreatedAt = now
	o.UpdatedAt = now

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := work.Rollback(ctx); err != nil {
			slog.Error("Failed to roll back order creation", "error", err)
		}
	}()

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	items := make([]orderitem.OrderItem, len(o.OrderItems))
	for i, item := range o.OrderItems {
		item.OrderID = inserted.ID
		item.CreatedAt = now
		item.UpdatedAt = now
		items[i] = item
	}

	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return order.Order{}, err
	}
	inserted.OrderItems = items

	msg, err := newOrderCreatedMessage(inserted, now)
	if err != nil {
		return order.Order{}, err
	}

	if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// GetOrders retrieves orders with their items based on filter.
func (s *OrderService) GetOrders(
	ctx context.Context,
	model order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &model)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	itemQuery := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemQuery.OrderIds = append(itemQuery.OrderIds, o.ID)
	}

	items, err := work.OrderItemRepository().Query(ctx, itemQuery)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// validateOrder rejects structurally invalid orders before the transaction opens.
func validateOrder(o order.Order) error {
	if o.UserID <= 0 {
		return fmt.Errorf("%w: user id required", ErrValidation)
	}
	if len(o.OrderItems) == 0 {
		return fmt.Errorf("%w: at least one item required", ErrValidation)
	}
	if o.Total < 0 {
		return fmt.Errorf("%w: total must be >= 0", ErrValidation)
	}
	for i, item := range o.OrderItems {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: item %d: product id required", ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d: quantity must be > 0", ErrValidation, i)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: item %d: price must be >= 0", ErrValidation, i)
		}
	}

	return nil
}

// newOrderCreatedMessage builds the outbox row carrying the order-created task.
func newOrderCreatedMessage(o order.Order, now time.Time) (outbox.OutboxMessage, error) {
	payload, err := json.Marshal(event.NewOrderCreated(o))
	if err != nil {
		return outbox.OutboxMessage{}, fmt.Errorf("failed to marshal order created event: %w", err)
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 10
	}

	return outbox.OutboxMessage{
		ExchangeName: viper.GetString("rabbitmq.exchange"),
		RoutingKey:   viper.GetString("rabbitmq.routing_key"),
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   maxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	}, nil
}
