package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fretedash/api"
	"fretedash/internal/config"
	"fretedash/internal/dataset"
	"fretedash/internal/store"
)

// Headless JSON API over the merged freight table, for clients that do
// not want the dashboard UI.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New(cfg.Workbooks, dataset.NewMerger(dataset.DefaultJoinSpec()))
	if err := st.Refresh(ctx); err != nil {
		log.Fatalf("Failed to load workbooks: %v", err)
	}

	if cfg.Cache.RevalidateEnabled {
		if err := st.StartRevalidation(ctx, cfg.Cache.RevalidateInterval); err != nil {
			log.Fatalf("Failed to start cache revalidation: %v", err)
		}
	}

	service := api.NewService(st)
	// Start blocks until SIGINT/SIGTERM cancels ctx, then returns nil
	// after a graceful drain so the process exits 0.
	if err := service.Start(ctx, cfg.Server.Addr()); err != nil {
		log.Fatalf("API server stopped: %v", err)
	}
	log.Printf("Shutdown complete")
}
