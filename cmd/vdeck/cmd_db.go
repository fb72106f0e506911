package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/VDECKSHOP/backend/config"
	"github.com/VDECKSHOP/backend/database/seeders"
	"github.com/VDECKSHOP/backend/pkg/mongodb"
)

// vdeck seed: run all registered seeders.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		store, err := mongodb.Connect(ctx, config.MongoURI(), config.MongoDB())
		if err != nil {
			return err
		}
		defer store.Close(context.Background()) //nolint:errcheck

		fmt.Println("Seeding database...")
		return seeders.RunAll(ctx, store)
	},
}
