package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/webshop-labs/order-intake/internal/dal/interfaces/iproductrepo"
	"github.com/webshop-labs/order-intake/internal/dal/interfaces/iuserrepo"
	"github.com/webshop-labs/order-intake/internal/service/models/product"
	"github.com/webshop-labs/order-intake/internal/service/models/user"
)

// Seeder populates baseline reference data: one admin user and a fixed
// product catalog. It is a single-run bootstrap tool and is deliberately
// NOT idempotent: a second run fails on the users.email unique constraint
// and duplicates products. Inserts are not transactional; partial failure
// leaves partial data.
type Seeder struct {
	userRepo    iuserrepo.IUserRepository
	productRepo iproductrepo.IProductRepository
}

const (
	adminName     = "Admin"
	adminEmail    = "admin@example.com"
	adminPassword = "123456"
)

// NewSeeder creates a new Seeder.
func NewSeeder(userRepo iuserrepo.IUserRepository, productRepo iproductrepo.IProductRepository) *Seeder {
	return &Seeder{
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// Run inserts the admin user and the product catalog, in that order.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedUser(ctx); err != nil {
		return err
	}

	return s.seedProducts(ctx)
}

func (s *Seeder) seedUser(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now()
	inserted, err := s.userRepo.Insert(ctx, user.User{
		Name:         adminName,
		Email:        adminEmail,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	slog.Info("Seeded admin user", "user_id", inserted.ID, "email", inserted.Email)

	return nil
}

func (s *Seeder) seedProducts(ctx context.Context) error {
	now := time.Now()
	catalog := []product.Product{
		{Name: "iPhone 15", Price: 999.99, CreatedAt: now, UpdatedAt: now},
		{Name: "Samsung Galaxy S24", Price: 899.99, CreatedAt: now, UpdatedAt: now},
		{Name: "OnePlus 12", Price: 749.99, CreatedAt: now, UpdatedAt: now},
		{Name: "Google Pixel 9", Price: 799.99, CreatedAt: now, UpdatedAt: now},
	}

	inserted, err := s.productRepo.BulkInsert(ctx, catalog)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	slog.Info("Seeded products", "count", len(inserted))

	return nil
}
