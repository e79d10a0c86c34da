package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/webshop-labs/order-intake/internal/service/models/order"
	"github.com/webshop-labs/order-intake/internal/service/models/orderitem"
	"github.com/webshop-labs/order-intake/internal/service/services/ordersvc"
	"github.com/webshop-labs/order-intake/internal/transport/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	ProductID int64   `json:"product_id" validate:"gt=0"`
	Quantity  int     `json:"quantity"   validate:"gt=0"`
	Price     float64 `json:"price"      validate:"gte=0"`
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	Total float64                    `json:"total" validate:"gte=0"`
	Items []itemInCreateOrderRequest `json:"items" validate:"required,min=1,dive"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts createOrderRequest to order.Order.
func (r *createOrderRequest) toModel(userID int64) *order.Order {
	items := make([]orderitem.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = orderitem.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return &order.Order{
		UserID:     userID,
		Total:      r.Total,
		OrderItems: items,
	}
}

type createOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateOrder handles the create order request. Validation happens before
// any storage access; the acting user is the authenticated one or the
// configured guest account, never an implicit literal.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order", err)
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		userID = viper.GetInt64("auth.guest_user_id")
		if userID <= 0 {
			writeError(w, http.StatusUnauthorized, "Authentication required",
				errors.New("no authenticated user and no guest account configured"))

			return
		}
	}

	created, err := service.CreateOrder(r.Context(), *req.toModel(userID))
	if err != nil {
		if errors.Is(err, ordersvc.ErrValidation) {
			writeError(w, http.StatusBadRequest, "Invalid order", err)
			slog.Error("Error validating order", "error", err)

			return
		}

		writeError(w, http.StatusInternalServerError, "Failed to create order", err)
		slog.Error("Error creating order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(createOrderResponse{
		Message: "Order created successfully.",
		OrderID: created.ID,
	}); err != nil {
		slog.Error("Error sending response for create order", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, label string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:   label,
		Message: err.Error(),
	})
}
