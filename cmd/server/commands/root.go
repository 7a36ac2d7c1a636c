// Package commands implements the bookstore command line: serve, migrate
// and seed.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "bookstore",
	Short: "Bookstore API server",
	Long: `Bookstore serves the catalog, users and orders API over HTTP.

Commands:
  serve    - run the HTTP API (and optionally the order event consumer)
  migrate  - create the MySQL schema
  seed     - insert the demo users and books`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; the environment may already be set.
		_ = godotenv.Load(envFile)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading configuration")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}
