package main

import (
	"database/sql"
	"dock-rebalance-service/internal/adapters/repositories"
	"dock-rebalance-service/internal/config"
	"dock-rebalance-service/internal/platform/db"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	if err := buildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type dbFlags struct {
	driver string
	dsn    string
}

func (f *dbFlags) open() (*sql.DB, repositories.Dialect, error) {
	dialect, err := repositories.ParseDialect(f.driver)
	if err != nil {
		return nil, "", err
	}
	if f.dsn == "" {
		return nil, "", fmt.Errorf("--dsn (or DATABASE_URL / DB_PATH) is required")
	}
	conn, err := db.Open(f.driver, f.dsn)
	if err != nil {
		return nil, "", err
	}
	return conn, dialect, nil
}

func buildCLI() *cobra.Command {
	flags := &dbFlags{}

	rootCmd := &cobra.Command{
		Use:           "dbtool",
		Short:         "Create the schema and load seed data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	driver := config.Get("DB_DRIVER", db.DriverSQLite)
	dsn := config.Get("DATABASE_URL", "")
	if driver == db.DriverSQLite {
		dsn = config.Get("DB_PATH", "data/app.db")
	}
	rootCmd.PersistentFlags().StringVar(&flags.driver, "driver", driver, "database driver (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVar(&flags.dsn, "dsn", dsn, "sqlite file path or postgres URL")

	rootCmd.AddCommand(buildMigrateCommand(flags))
	rootCmd.AddCommand(buildSeedCommand(flags))

	return rootCmd
}

func buildMigrateCommand(flags *dbFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, dialect, err := flags.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			slog.Info("initializing database schema", "driver", flags.driver)
			if err := repositories.InitSchema(conn, dialect); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			slog.Info("schema ready")
			return nil
		},
	}
}

func buildSeedCommand(flags *dbFlags) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and upsert docks and vessel visits from JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, dialect, err := flags.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := repositories.InitSchema(conn, dialect); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			slog.Info("seeding database", "path", path)
			if err := repositories.SeedFromJSON(conn, dialect, path); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			slog.Info("seeding complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", config.Get("SEED_PATH", "data/seeds/vessel_visits.json"), "seed JSON file")

	return cmd
}
