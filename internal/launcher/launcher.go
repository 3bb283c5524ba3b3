// Package launcher holds the launcher core: display records, the
// search/filter/sort pipeline, the UI state they feed, and the orchestrator
// that validates a launch, records statistics and hands off to an executor.
package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jeanpaul/launchpad/internal/catalog"
	"github.com/jeanpaul/launchpad/internal/executor"
	"github.com/jeanpaul/launchpad/internal/store"
)

// Launcher validates launch requests, keeps statistics and recents in the
// store up to date, and delegates the actual run to an executor.
type Launcher struct {
	catalog catalog.Catalog
	exec    executor.Executor
	store   *store.Store
	log     *slog.Logger
	now     func() time.Time
	newID   func() string

	running string
}

// Option configures optional Launcher behavior.
type Option func(*Launcher)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Launcher) { l.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Launcher) { l.log = log }
}

func New(cat catalog.Catalog, exec executor.Executor, st *store.Store, opts ...Option) *Launcher {
	l := &Launcher{
		catalog: cat,
		exec:    exec,
		store:   st,
		log:     slog.Default(),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Launcher) Catalog() catalog.Catalog { return l.catalog }
func (l *Launcher) Store() *store.Store      { return l.store }

// Outcome describes a finished launch. A failed run is still an Outcome;
// errors are reserved for launches that never started.
type Outcome struct {
	Agent     catalog.AgentRecord
	SessionID string
	Success   bool
	Error     string
	Duration  time.Duration
	Stats     *store.AgentStats
}

// LaunchAgent resolves name, records the start of the launch, runs it
// synchronously and records the completion. Unknown names fail with
// ErrNotFound before any statistics change.
func (l *Launcher) LaunchAgent(ctx context.Context, name string, sessionType executor.SessionType, opts executor.LaunchOptions) (Outcome, error) {
	if l.running != "" {
		return Outcome{}, fmt.Errorf("%w: %q is still running", ErrInvalidState, l.running)
	}
	st, err := executor.ParseSessionType(string(sessionType))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	agent, err := l.catalog.Get(name)
	if err != nil {
		return Outcome{}, fmt.Errorf("launch: %w", err)
	}

	start := l.now()
	stats := l.store.StatsFor(name)
	stats.RecordStart(start)
	l.store.AddRecent(name)

	opts.AgentName = name
	opts.SessionType = st
	sessionID := l.newID()

	res := l.run(ctx, agent, opts)

	elapsed := l.now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	rec := store.LaunchRecord{
		Timestamp:       start,
		Success:         res.Success,
		DurationSeconds: elapsed.Seconds(),
		SessionType:     string(st),
		SessionID:       sessionID,
	}
	if !res.Success {
		rec.ErrorMessage = res.Error
		if rec.ErrorMessage == "" {
			rec.ErrorMessage = "launch failed"
		}
	}
	stats.RecordCompletion(rec)

	if res.Success {
		l.log.Info("agent launch completed", "agent", name, "session", sessionID, "duration", elapsed)
	} else {
		l.log.Warn("agent launch failed", "agent", name, "session", sessionID, "error", rec.ErrorMessage)
	}

	return Outcome{
		Agent:     agent,
		SessionID: sessionID,
		Success:   res.Success,
		Error:     rec.ErrorMessage,
		Duration:  elapsed,
		Stats:     stats,
	}, nil
}

func (l *Launcher) run(ctx context.Context, agent catalog.AgentRecord, opts executor.LaunchOptions) executor.Result {
	l.running = agent.Name
	defer func() { l.running = "" }()
	return l.exec.Execute(ctx, agent, opts)
}

// ToggleFavorite flips name's favorite flag and returns the new value.
func (l *Launcher) ToggleFavorite(name string) bool {
	on := l.store.ToggleFavorite(name)
	l.log.Debug("favorite toggled", "agent", name, "favorite", on)
	return on
}
