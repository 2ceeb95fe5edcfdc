package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-pages/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

var migrateDatabaseURL string

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	url := migrateDatabaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return fmt.Errorf("database URL is required: set --db-url or DATABASE_URL")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer database.Close()

	applied, err := database.Migrate(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(applied) == 0 {
		_, _ = fmt.Fprintln(out, "Database is up to date")
		return nil
	}
	for _, name := range applied {
		_, _ = fmt.Fprintf(out, "Applied %s\n", name)
	}
	return nil
}
