package main

import (
	"log"

	"carservice/pkg/config"
	"carservice/pkg/db"
)

// Dev helper: applies pending migrations and exits.
func main() {
	cfg := config.Load()

	path := cfg.MigrationsPath
	if path == "" {
		path = "file://migrations"
	}

	if err := db.Migrate(path, cfg); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("migrations up to date")
}
