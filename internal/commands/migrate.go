package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zillusion/capsule/database"
	"github.com/zillusion/capsule/database/migration"
	"github.com/zillusion/capsule/internal/record"
	"github.com/zillusion/capsule/logger"
)

func addMigrate(topLevel *cobra.Command, ro *RootOptions) {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema.",
	}

	addMigrateUp(migrateCmd, ro)
	addMigrateDown(migrateCmd, ro)
	addMigrateVersion(migrateCmd, ro)
	topLevel.AddCommand(migrateCmd)
}

// withDatabase opens the configured database for one migration step.
// Versioned migrations are PostgreSQL only; sqlite uses auto-migration.
func withDatabase(cmd *cobra.Command, ro *RootOptions, fn func(db *database.DB) error) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(ro)
	if err != nil {
		return err
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}
	if cfg.Database.Driver != database.DriverPostgres {
		return fmt.Errorf("migrate: driver %q has no versioned migrations, set database.auto_migrate instead", cfg.Database.Driver)
	}

	log := logger.Init(cfg.Logging, cfg.Name).WithComponent("migrate")
	db, err := database.Open(cmd.Context(), cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func addMigrateUp(parent *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, ro, func(db *database.DB) error {
				if err := migration.Up(db.GormDB, record.Migrations(), migration.Postgres); err != nil {
					return err
				}
				return printVersion(cmd, db)
			})
		},
	}
	parent.AddCommand(cmd)
}

func addMigrateDown(parent *cobra.Command, ro *RootOptions) {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations.",
		Example: `
capsule migrate down --steps 1
capsule migrate down --steps 0   # everything
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, ro, func(db *database.DB) error {
				if err := migration.Down(db.GormDB, record.Migrations(), migration.Postgres, steps); err != nil {
					return err
				}
				return printVersion(cmd, db)
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back; 0 rolls back all.")
	parent.AddCommand(cmd)
}

func addMigrateVersion(parent *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, ro, func(db *database.DB) error {
				return printVersion(cmd, db)
			})
		},
	}
	parent.AddCommand(cmd)
}

func printVersion(cmd *cobra.Command, db *database.DB) error {
	v, dirty, err := migration.Version(db.GormDB, record.Migrations(), migration.Postgres)
	if err != nil {
		return err
	}
	suffix := ""
	if dirty {
		suffix = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d%s\n", v, suffix)
	return nil
}
