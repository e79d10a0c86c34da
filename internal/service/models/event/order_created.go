package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/webshop-labs/order-intake/internal/service/models/order"
)

// OrderCreatedItem is one order line as carried by the order-created event.
type OrderCreatedItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderCreated is the task payload emitted once per committed order.
// Consumers must treat delivery as at-least-once and deduplicate on EventID.
type OrderCreated struct {
	EventID   string             `json:"event_id"`
	OrderID   int64              `json:"order_id"`
	UserID    int64              `json:"user_id"`
	Total     float64            `json:"total"`
	Status    string             `json:"status"`
	Items     []OrderCreatedItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewOrderCreated builds an OrderCreated event from a committed order.
func NewOrderCreated(o order.Order) OrderCreated {
	items := make([]OrderCreatedItem, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		items = append(items, OrderCreatedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return OrderCreated{
		EventID:   uuid.NewString(),
		OrderID:   o.ID,
		UserID:    o.UserID,
		Total:     o.Total,
		Status:    o.Status.String(),
		Items:     items,
		CreatedAt: o.CreatedAt,
	}
}
