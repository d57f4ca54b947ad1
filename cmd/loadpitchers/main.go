// cmd/loadpitchers/main.go
// Loads pitcher data from a JSON feed file. Pitchers already in the catalog
// (matched by player name) are left as they are.
//
// Usage:
//
//	go run ./cmd/loadpitchers -file pitchers.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dom/pitcher-favorites/internal/config"
	applog "github.com/dom/pitcher-favorites/internal/logger"
	"github.com/dom/pitcher-favorites/internal/metrics"
	"github.com/dom/pitcher-favorites/internal/repository/postgres"
	"github.com/dom/pitcher-favorites/internal/service"
	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "path to the JSON file containing pitcher data (required)")
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}

	feed, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read feed: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := applog.New(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := postgres.NewConnection(cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	repos := postgres.NewRepositories(db)
	pitchers := service.NewPitcherService(repos.Pitcher, logger, metrics.New())

	result, err := pitchers.Import(context.Background(), feed)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("Successfully loaded pitcher data: %d created, %d already present, %d invalid\n",
		result.Created, result.Existing, result.Invalid)
}
