package cmd

import (
	"context"
	"log"

	store "github.com/frahmantamala/workforce-management/internal/store/postgres"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// sqlite is a development store, its schema comes from the models
	if cfg.Database.Driver == "sqlite" {
		gdb, err := store.Open(cfg.Database, nil)
		if err != nil {
			log.Fatalf("sqlite: failed to open DB: %v\n", err)
		}
		if err := store.NewStore(gdb).AutoMigrate(); err != nil {
			log.Fatalf("sqlite: automigrate: %v", err)
		}
		log.Println("sqlite schema is up to date")
		return nil
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}
