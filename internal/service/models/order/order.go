package order

import (
	"time"

	"github.com/webshop-labs/order-intake/internal/service/models/orderitem"
)

// Order represents a customer purchase in the system.
type Order struct {
	ID         int64                 `json:"id"`
	UserID     int64                 `json:"userId"`
	Total      float64               `json:"total"`
	Status     Status                `json:"status"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	OrderItems []orderitem.OrderItem `json:"orderItems"`
}
