// Command incident-seed inserts demo incidents into the configured store.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/bissquit/incident-tracker/internal/config"
	"github.com/bissquit/incident-tracker/internal/incidents"
	"github.com/bissquit/incident-tracker/internal/seed"
	"github.com/bissquit/incident-tracker/internal/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("INCIDENT_CONFIG"), "path to YAML config file")
	count := flag.Int("count", seed.DefaultCount, "number of incidents to create")
	workers := flag.Int("workers", 4, "concurrent inserts")
	flag.Parse()

	if err := run(*configPath, *count, *workers); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, count, workers int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout+time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	now := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewPCG(now, now>>1))

	service := incidents.NewService(st.Incidents)
	return seed.Run(ctx, service, seed.Generate(count, rng), workers)
}
