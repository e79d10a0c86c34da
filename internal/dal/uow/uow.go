package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webshop-labs/order-intake/internal/dal/interfaces/iorderitemrepo"
	"github.com/webshop-labs/order-intake/internal/dal/interfaces/iorderrepo"
	"github.com/webshop-labs/order-intake/internal/dal/interfaces/ioutboxrepo"
	"github.com/webshop-labs/order-intake/internal/dal/postgres"
	orderrepo "github.com/webshop-labs/order-intake/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/webshop-labs/order-intake/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/webshop-labs/order-intake/internal/dal/repositories/outbox/postgres"
)

// unitOfWork groups the order, order item and outbox repositories behind a
// single pgx transaction. Before Begin the repositories run against the pool.
type unitOfWork struct {
	pool          *pgxpool.Pool
	tx            pgx.Tx
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

// NewUnitOfWork creates a unit of work bound to the given Postgres client.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	pool := client.Pool()

	return &unitOfWork{
		pool:          pool,
		orderRepo:     orderrepo.NewPostgresOrderRepository(pool),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(pool),
		outboxRepo:    outboxrepo.NewOutboxRepository(pool),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

// Begin starts a transaction and rebinds the repositories to it.
func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

// Commit commits the transaction. No-op when no transaction is open.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Commit(ctx)
	u.tx = nil

	return err
}

// Rollback aborts the transaction. No-op when no transaction is open or
// after a successful Commit, so it is safe to defer.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(ctx)
	u.tx = nil

	return err
}
