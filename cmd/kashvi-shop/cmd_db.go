package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/database/seeders"
	"github.com/shashiranjanraj/kashvi-shop/pkg/database"
	"github.com/shashiranjanraj/kashvi-shop/pkg/migration"
)

// bootDB loads config and connects to Mongo. Callers close the connection.
func bootDB(ctx context.Context) (*database.Conn, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Connect(ctx, config.MongoURI(), config.MongoDatabase())
}

// withRunner hands fn a migration runner printing to the command's output.
func withRunner(cmd *cobra.Command, fn func(ctx context.Context, r *migration.Runner) error) error {
	ctx := cmd.Context()
	conn, err := bootDB(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())
	return fn(ctx, migration.New(conn.DB, cmd.OutOrStdout()))
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(ctx context.Context, r *migration.Runner) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			return r.Run(ctx)
		})
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(ctx context.Context, r *migration.Runner) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			return r.Rollback(ctx)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(ctx context.Context, r *migration.Runner) error {
			return r.Status(ctx)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:     "db:seed",
	Aliases: []string{"seed"},
	Short:   "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		conn, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer conn.Close(context.Background())

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(ctx, repositories.NewMongo(conn.DB), cmd.OutOrStdout())
	},
}
