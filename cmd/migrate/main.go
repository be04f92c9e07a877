package main

import (
	"flag"
	"log"

	"github.com/whatshouldieat/backend/config"
	"github.com/whatshouldieat/backend/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Drop the key-value table and all stored data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreBackend != config.BackendSQLite && cfg.StoreBackend != config.BackendPostgres {
		log.Fatalf("STORE_BACKEND=%s has no schema to migrate", cfg.StoreBackend)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get database handle: %v", err)
	}
	defer sqlDB.Close()

	if *rollback {
		if err := database.RollbackMigrations(db); err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		log.Println("Rollback completed")
		return
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("Migrations completed")
}
