package main

import (
	"context"
	"fmt"

	"claimdesk/internal/db"
	"claimdesk/internal/seed"
	"claimdesk/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with reference data and demo employees",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		refRepo := store.NewReferenceRepository(pool)
		employeeRepo := store.NewEmployeeRepository(pool)

		logrus.Info("Seeding reference data...")
		if err := seed.SeedReferenceData(ctx, refRepo); err != nil {
			return fmt.Errorf("failed to seed reference data: %w", err)
		}

		logrus.Info("Seeding employees...")
		if err := seed.SeedEmployees(ctx, employeeRepo); err != nil {
			return fmt.Errorf("failed to seed employees: %w", err)
		}

		lookup, err := refRepo.Lookup(ctx)
		if err != nil {
			return fmt.Errorf("failed to read back reference data: %w", err)
		}
		pp.Println(lookup.Summary())

		logrus.Info("Seed complete")

		return nil
	},
}
