package iproductrepo

import (
	"context"

	"github.com/webshop-labs/order-intake/internal/service/models/product"
)

// IProductRepository is an interface for the product postgres repository.
type IProductRepository interface {
	BulkInsert(ctx context.Context, products []product.Product) ([]product.Product, error)
}
