package commands

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/bookstore/internal/config"
	"github.com/iliyamo/bookstore/internal/database"
)

var withSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long: `Create the users, books, orders and order_items tables if they do not exist.

Examples:
  bookstore migrate          # create missing tables
  bookstore migrate --seed   # create tables, then insert demo data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo users and books",
	Long: `Insert the demo users and books.  Rows that already exist are left alone,
so seeding twice is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&withSeed, "seed", false, "insert demo data after migrating")
}

func runMigrate(ctx context.Context) error {
	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	log.Printf("schema ready on %s", cfg.DBName)
	if !withSeed {
		return nil
	}
	return seed(ctx, cfg)
}

func runSeed(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return seed(ctx, config.Load())
}

func seed(ctx context.Context, cfg config.Config) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := database.Seed(ctx, db, cfg.BcryptCost)
	if err != nil {
		return err
	}
	log.Printf("seeded %d user(s) and %d book(s)", res.Users, res.Books)
	return nil
}
