// Package store owns the cached merged table. The cache is an explicit,
// injectable object with defined refresh triggers (content-hash change or
// a manual refresh call), never an implicit package-level variable.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"golang.org/x/sync/errgroup"

	"fretedash/adapters/excel"
	"fretedash/domain/core"
	"fretedash/domain/freight"
	"fretedash/internal"
	"fretedash/internal/config"
	"fretedash/internal/dataset"
)

// Snapshot is one immutable view of the loaded data. Handlers read a
// snapshot and never see a half-refreshed table.
type Snapshot struct {
	Table    *freight.MergedTable
	Context  freight.ContextSummary
	Domains  []freight.ColumnDomain
	LoadedAt core.LoadedAt
	Hashes   map[string]core.FileHash
}

// RefreshListener is notified after a successful reload with the changed
// workbook paths (empty on the initial load and manual refreshes).
type RefreshListener func(rows int, changed []string)

// Store loads, merges and caches the three workbooks.
type Store struct {
	workbooks config.WorkbookConfig
	merger    *dataset.Merger
	filters   *dataset.FilterEngine
	logger    *internal.Logger

	mu       sync.RWMutex
	snapshot *Snapshot

	listeners   []RefreshListener
	listenersMu sync.Mutex

	scheduler *gocron.Scheduler
}

// New creates a store for the configured workbooks.
func New(workbooks config.WorkbookConfig, merger *dataset.Merger) *Store {
	return &Store{
		workbooks: workbooks,
		merger:    merger,
		filters:   dataset.NewFilterEngine(),
		logger:    internal.NewDefaultLogger(),
	}
}

// AddListener registers a refresh listener.
func (s *Store) AddListener(fn RefreshListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the current snapshot, or nil before the first load.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh reloads the workbooks unconditionally.
func (s *Store) Refresh(ctx context.Context) error {
	return s.reload(ctx, nil)
}

// RefreshIfStale re-hashes the source files and reloads only when a
// content hash changed since the last load. Returns whether a reload
// happened.
func (s *Store) RefreshIfStale(ctx context.Context) (bool, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap == nil {
		return true, s.reload(ctx, nil)
	}

	var changed []string
	for _, path := range s.paths() {
		hash, err := core.HashFile(path)
		if err != nil {
			// A vanished or unreadable file is surfaced by the reload itself.
			changed = append(changed, path)
			continue
		}
		if !hash.Equals(snap.Hashes[path]) {
			changed = append(changed, path)
		}
	}
	if len(changed) == 0 {
		return false, nil
	}

	s.logger.Info("[Store] Source change detected in %v, reloading", changed)
	return true, s.reload(ctx, changed)
}

// StartRevalidation schedules RefreshIfStale on the given interval until
// the context is cancelled.
func (s *Store) StartRevalidation(ctx context.Context, interval time.Duration) error {
	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(interval).Do(func() {
		if _, err := s.RefreshIfStale(ctx); err != nil {
			s.logger.Error("[Store] Scheduled revalidation failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	scheduler.StartAsync()
	s.scheduler = scheduler

	go func() {
		<-ctx.Done()
		scheduler.Stop()
		s.logger.Info("[Store] Revalidation scheduler stopped")
	}()
	return nil
}

// View applies a filter selection to the current table.
func (s *Store) View(sel freight.FilterSelection) freight.FilteredView {
	snap := s.Snapshot()
	if snap == nil {
		return freight.FilteredView{}
	}
	return s.filters.Apply(snap.Table, sel)
}

func (s *Store) paths() []string {
	return []string{
		s.workbooks.BaseValuesFile,
		s.workbooks.FreightCalcFile,
		s.workbooks.QuotationFile,
	}
}

// reload reads the three workbooks concurrently, merges them and swaps the
// snapshot in one step.
func (s *Store) reload(ctx context.Context, changed []string) error {
	start := time.Now()

	// Hash before parsing. A file rewritten while it is being read keeps
	// its pre-read hash in the snapshot, so the next staleness check
	// still sees the rewrite. A file the hasher cannot open is left to
	// the readers, which report it with the proper error code.
	hashes := make(map[string]core.FileHash, 3)
	for _, path := range s.paths() {
		if hash, err := core.HashFile(path); err == nil {
			hashes[path] = hash
		}
	}

	var (
		baseValues *excel.BaseValuesResult
		calc       *freight.Sheet
		quote      *excel.QuotationResult
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		baseValues, err = excel.ReadBaseValues(s.workbooks.BaseValuesFile)
		return err
	})
	g.Go(func() error {
		var err error
		calc, err = excel.ReadFreightCalc(s.workbooks.FreightCalcFile)
		return err
	})
	g.Go(func() error {
		var err error
		quote, err = excel.ReadQuotation(s.workbooks.QuotationFile)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	table, err := s.merger.Merge(baseValues.Sheet, calc, quote.Sheet)
	if err != nil {
		return err
	}

	summary := quote.Context
	summary.BusinessDays = baseValues.BusinessDays

	snap := &Snapshot{
		Table:    table,
		Context:  summary,
		Domains:  s.filters.Domains(table, dataset.FilterableColumns()),
		LoadedAt: core.NewLoadedAt(time.Now()),
		Hashes:   hashes,
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.logger.Info("[Store] Loaded %d merged rows in %.2fms",
		table.RowCount(), float64(time.Since(start).Nanoseconds())/1e6)

	s.notify(table.RowCount(), changed)
	return nil
}

func (s *Store) notify(rows int, changed []string) {
	s.listenersMu.Lock()
	listeners := make([]RefreshListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(rows, changed)
	}
}
