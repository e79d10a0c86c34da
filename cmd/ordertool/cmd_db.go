package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/webshop-labs/order-intake/internal/config"
	"github.com/webshop-labs/order-intake/internal/dal/postgres"
	productrepo "github.com/webshop-labs/order-intake/internal/dal/repositories/product/postgres"
	userrepo "github.com/webshop-labs/order-intake/internal/dal/repositories/user/postgres"
	"github.com/webshop-labs/order-intake/internal/seeder"
)

// ordertool migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.MustInit()

		fmt.Println("Running migrations...")
		client := postgres.MustNewClient() // MustNewClient applies migrations
		defer client.Close()

		return nil
	},
}

// ordertool seed
//
// Single-run bootstrap: re-running fails on the admin email unique
// constraint or duplicates products. That is expected, not a defect.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the baseline admin user and product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.MustInit()

		client := postgres.MustNewClient()
		defer client.Close()

		s := seeder.NewSeeder(
			userrepo.NewPostgresUserRepository(client.Pool()),
			productrepo.NewPostgresProductRepository(client.Pool()),
		)

		fmt.Println("Running seeder...")

		return s.Run(context.Background())
	},
}
