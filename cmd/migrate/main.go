package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/ledger"
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/catalogsync/backend/internal/infrastructure/config"
	"github.com/catalogsync/backend/internal/infrastructure/logger"
	"github.com/catalogsync/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// seedProviders is the distributor roster created on first migrate.
// All start disabled; an operator enables them once credentials are set.
var seedProviders = []struct {
	key  string
	name string
}{
	{"nod", "NOD B2B"},
	{"elko", "ELKO"},
	{"ingram", "Ingram Micro 24"},
	{"also", "ALSO"},
}

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	command := "up"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	switch command {
	case "up":
		if err := migrate(db, log); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
		if err := seed(db, log); err != nil {
			log.Fatal("seeding failed", zap.Error(err))
		}
		log.Info("migration complete")

	case "seed":
		if err := seed(db, log); err != nil {
			log.Fatal("seeding failed", zap.Error(err))
		}
		log.Info("seeding complete")

	default:
		fmt.Println(`Catalog Sync Migration Tool

Usage:
  migrate [flags] <command>

Commands:
  up     Create or update the schema and seed the provider roster (default)
  seed   Seed the provider roster only

Flags:
  -log-level string   Log level: debug, info, warn, error (default: info)`)
		os.Exit(1)
	}
}

func migrate(db *persistence.Database, log *zap.Logger) error {
	log.Info("applying schema")
	return db.DB.AutoMigrate(
		&catalog.Provider{},
		&catalog.Brand{},
		&catalog.Category{},
		&catalog.Product{},
		&catalog.ProductAttribute{},
		&catalog.PriceHistory{},
		&ledger.SyncJob{},
	)
}

func seed(db *persistence.Database, log *zap.Logger) error {
	ctx := context.Background()
	repo := persistence.NewGormProviderRepository(db.DB)

	for _, sp := range seedProviders {
		if _, err := repo.FindByKey(ctx, sp.key); err == nil {
			log.Debug("provider already present", zap.String("key", sp.key))
			continue
		} else if !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("looking up provider %s: %w", sp.key, err)
		}

		prov, err := catalog.NewProvider(sp.key, sp.name)
		if err != nil {
			return fmt.Errorf("building provider %s: %w", sp.key, err)
		}
		if err := repo.Save(ctx, prov); err != nil {
			return fmt.Errorf("saving provider %s: %w", sp.key, err)
		}
		log.Info("provider seeded", zap.String("key", sp.key), zap.String("name", sp.name))
	}
	return nil
}
