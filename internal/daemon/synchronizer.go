// Package daemon reconciles declarative window records against live native
// windows. Each cycle runs three stages in order: creation, reconciliation,
// teardown. All native calls happen on the goroutine that runs the cycle.
package daemon

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/store"
	"github.com/1broseidon/winstate/internal/window"
)

// Config holds configuration for the synchronizer.
type Config struct {
	Interval time.Duration
	Logger   *slog.Logger
	Events   Sink
}

// Synchronizer drives the per-cycle create/reconcile/teardown sequence.
type Synchronizer struct {
	store    *store.Store
	registry *native.Registry
	events   Sink
	logger   *slog.Logger
	interval time.Duration

	// caches hold the last-synchronized copy of each record, the diff
	// baseline for reconciliation. cacheMu guards them: Snapshot is
	// served to IPC goroutines while the cycle runs.
	cacheMu sync.RWMutex
	caches  map[window.ID]window.Window

	// hookMu guards the hook maps: SetHook may attach or detach hooks
	// from other goroutines while the cycle runs. Hook callbacks
	// themselves still execute on the cycle goroutine only.
	hookMu     sync.Mutex
	hooks      map[window.ID]Hook
	hookCaches map[window.ID]Hook

	cycles atomic.Uint64
}

// New creates a synchronizer over the given store and registry.
func New(cfg Config, st *store.Store, reg *native.Registry) *Synchronizer {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	events := cfg.Events
	if events == nil {
		events = &LogSink{Logger: logger}
	}

	return &Synchronizer{
		store:      st,
		registry:   reg,
		events:     events,
		logger:     logger,
		interval:   interval,
		caches:     make(map[window.ID]window.Window),
		hooks:      make(map[window.ID]Hook),
		hookCaches: make(map[window.ID]Hook),
	}
}

// Run executes synchronization cycles until the context is cancelled.
func (s *Synchronizer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("synchronizer started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("synchronizer stopped")
			return
		case <-ticker.C:
			s.cycle()
		}
	}
}

func (s *Synchronizer) cycle() {
	// Recover from panics to keep the daemon alive; a single bad cycle
	// must not take the process down.
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("synchronizer panic recovered", "error", err)
		}
	}()
	s.RunCycle()
}

// RunCycle performs one synchronization pass: create, reconcile, teardown.
func (s *Synchronizer) RunCycle() {
	s.createWindows()
	s.reconcileWindows()
	s.reconcileHooks()
	s.despawnWindows()
	s.cycles.Add(1)
}

// Cycles returns the number of completed synchronization passes.
func (s *Synchronizer) Cycles() uint64 {
	return s.cycles.Load()
}

// Snapshot returns the cached last-synchronized state for id, if any. Used
// for drift inspection over IPC.
func (s *Synchronizer) Snapshot(id window.ID) (window.Window, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	c, ok := s.caches[id]
	if !ok {
		return window.Window{}, false
	}
	return c.Clone(), true
}
