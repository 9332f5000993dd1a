// Command seed loads a YAML fixture file into the configured database.
package main

import (
	"flag"

	"github.com/yukikurage/taskboard/internal/config"
	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/seed"
)

func main() {
	cfg := config.Load()

	path := flag.String("file", cfg.SeedFile, "fixture file to load")
	flag.Parse()

	logging.Init(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Service: "taskboard-seed"})
	log := logging.Logger

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	fixtures, err := seed.LoadFile(*path)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}
	if _, err := seed.Apply(db, fixtures); err != nil {
		log.WithField("file", *path).Fatalf("Failed to apply fixtures: %v", err)
	}
}
