package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fretedash/internal/api"
	"fretedash/internal/config"
	"fretedash/internal/dataset"
	"fretedash/internal/store"
	"fretedash/ui"
)

func main() {
	// Load .env file if present (ignore error in production)
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

	// A workbook that cannot be loaded at startup is fatal: exit non-zero
	// with the offending path in the message.
	if err := st.Refresh(ctx); err != nil {
		log.Fatalf("Failed to load workbooks: %v", err)
	}

	hub := api.NewSSEHub()
	st.AddListener(func(rows int, changed []string) {
		hub.Broadcast(api.RefreshEvent{EventType: "refresh", Rows: rows, Changed: changed})
	})

	if cfg.Cache.RevalidateEnabled {
		if err := st.StartRevalidation(ctx, cfg.Cache.RevalidateInterval); err != nil {
			log.Fatalf("Failed to start cache revalidation: %v", err)
		}
	}

	server, err := ui.NewServer(cfg.Server, st, hub)
	if err != nil {
		log.Fatalf("Failed to create dashboard server: %v", err)
	}

	// Start blocks until SIGINT/SIGTERM cancels ctx, then returns nil
	// after a graceful drain so the process exits 0.
	if err := server.Start(ctx, cfg.Server.Addr()); err != nil {
		log.Fatalf("Dashboard server stopped: %v", err)
	}
	log.Printf("Shutdown complete")
}
