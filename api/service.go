// Package api exposes the merged freight table as a headless JSON service
// for clients that want the data without the dashboard UI. Filter
// selections arrive as query parameters, so the service stays stateless.
package api

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fretedash/domain/freight"
	"fretedash/internal/dataset"
	"fretedash/internal/errors"
	"fretedash/internal/store"
)

// Service is the JSON API over the shared store.
type Service struct {
	router     *chi.Mux
	store      *store.Store
	aggregator *dataset.Aggregator
}

// NewService creates the API service.
func NewService(st *store.Store) *Service {
	s := &Service{
		router:     chi.NewRouter(),
		store:      st,
		aggregator: dataset.NewAggregator(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Service) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Service) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/v1/table", s.handleTable)
	s.router.Get("/v1/filters", s.handleFilters)
	s.router.Get("/v1/aggregates", s.handleAggregates)
	s.router.Get("/v1/context", s.handleContext)
	s.router.Post("/v1/refresh", s.handleRefresh)
}

// Router returns the HTTP handler.
func (s *Service) Router() http.Handler {
	return s.router
}

// Start serves the API until ctx is cancelled, then drains in-flight
// requests and returns nil so the process can exit cleanly.
func (s *Service) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("Starting freight API on http://%s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{"status": "ok", "loaded": s.store.Snapshot() != nil}
	writeJSON(w, http.StatusOK, status)
}

func (s *Service) handleTable(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "data not loaded yet")
		return
	}
	sel, err := selectionFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view := s.store.View(sel)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns": view.Columns,
		"rows":    view.Rows,
		"total":   view.Total,
		"empty":   view.Empty,
		"warning": view.Warning,
	})
}

func (s *Service) handleFilters(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "data not loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"domains": snap.Domains})
}

func (s *Service) handleAggregates(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "data not loaded yet")
		return
	}
	sel, err := selectionFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view := s.store.View(sel)
	writeJSON(w, http.StatusOK, s.aggregator.Charts(view))
}

func (s *Service) handleContext(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "data not loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"context":   snap.Context,
		"loaded_at": snap.LoadedAt.String(),
	})
}

func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(r.Context()); err != nil {
		log.Printf("[API] Refresh failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":      snap.Table.RowCount(),
		"loaded_at": snap.LoadedAt.String(),
	})
}

// selectionFromQuery builds a filter selection from query parameters:
// repeated ?vehicle_type=X values plus ?km_min / ?km_max bounds.
// Non-numeric or inverted bounds are rejected, matching the dashboard's
// selection endpoint.
func selectionFromQuery(r *http.Request) (freight.FilterSelection, error) {
	sel := freight.NewFilterSelection()
	query := r.URL.Query()

	if vehicles := query[freight.ColVehicleType]; len(vehicles) > 0 {
		sel.Values[freight.ColVehicleType] = vehicles
	}

	minStr, maxStr := query.Get("km_min"), query.Get("km_max")
	if minStr == "" && maxStr == "" {
		return sel, nil
	}

	min, max := 0.0, math.MaxFloat64
	if minStr != "" {
		v, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return sel, errors.InvalidInput("km_min must be numeric")
		}
		min = v
	}
	if maxStr != "" {
		v, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return sel, errors.InvalidInput("km_max must be numeric")
		}
		max = v
	}
	if min > max {
		return sel, errors.InvalidInput("km_min must not exceed km_max")
	}

	sel.Ranges[freight.ColKMStart] = freight.Range{Min: min, Max: max}
	return sel, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
