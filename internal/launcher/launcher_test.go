package launcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/launchpad/internal/catalog"
	"github.com/jeanpaul/launchpad/internal/executor"
	"github.com/jeanpaul/launchpad/internal/store"
)

// fakeClock advances by step every time it is read.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func newTestLauncher(t *testing.T, exec executor.Executor) (*Launcher, *store.Store, *fakeClock) {
	t.Helper()
	st := store.New(t.TempDir(), nil)
	clock := &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC), step: 2 * time.Second}
	l := New(catalog.NewStatic(sampleAgents()...), exec, st, WithClock(clock.Now))
	return l, st, clock
}

func okExec() executor.Executor {
	return executor.Func(func(context.Context, catalog.AgentRecord, executor.LaunchOptions) executor.Result {
		return executor.Result{Success: true}
	})
}

func TestLaunchAgent_NotFoundTouchesNothing(t *testing.T) {
	called := false
	l, st, _ := newTestLauncher(t, executor.Func(func(context.Context, catalog.AgentRecord, executor.LaunchOptions) executor.Result {
		called = true
		return executor.Result{Success: true}
	}))

	_, err := l.LaunchAgent(context.Background(), "ghost", executor.SessionInteractive, executor.LaunchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
	assert.Empty(t, st.Stats)
	assert.Empty(t, st.Recents)
}

func TestLaunchAgent_RecordsSuccess(t *testing.T) {
	var got executor.LaunchOptions
	var gotAgent catalog.AgentRecord
	l, st, _ := newTestLauncher(t, executor.Func(func(_ context.Context, a catalog.AgentRecord, o executor.LaunchOptions) executor.Result {
		gotAgent, got = a, o
		return executor.Result{Success: true}
	}))

	out, err := l.LaunchAgent(context.Background(), "scribe", executor.SessionBatch, executor.LaunchOptions{Debug: true})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.NotEmpty(t, out.SessionID)
	assert.Equal(t, "scribe", gotAgent.Name)
	assert.Equal(t, "scribe", got.AgentName)
	assert.Equal(t, executor.SessionBatch, got.SessionType)
	assert.True(t, got.Debug)

	s := st.Stats["scribe"]
	require.NotNil(t, s)
	assert.Equal(t, uint(1), s.TotalLaunches)
	assert.Equal(t, uint(1), s.SuccessfulLaunches)
	assert.Zero(t, s.FailedLaunches)
	require.Len(t, s.LaunchHistory, 1)
	h := s.LaunchHistory[0]
	assert.True(t, h.Timestamp.Equal(*s.LastLaunch), "history uses the start timestamp")
	assert.InDelta(t, 2.0, h.DurationSeconds, 1e-9)
	assert.Equal(t, "batch", h.SessionType)
	assert.Equal(t, out.SessionID, h.SessionID)
	assert.Equal(t, store.Recents{"scribe"}, st.Recents)
}

func TestLaunchAgent_FailureIsData(t *testing.T) {
	l, st, _ := newTestLauncher(t, executor.Func(func(context.Context, catalog.AgentRecord, executor.LaunchOptions) executor.Result {
		return executor.Result{Success: false, Error: "exit status 2"}
	}))

	out, err := l.LaunchAgent(context.Background(), "tester", "", executor.LaunchOptions{})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "exit status 2", out.Error)

	s := st.Stats["tester"]
	assert.Equal(t, uint(1), s.FailedLaunches)
	assert.Zero(t, s.SuccessfulLaunches)
	assert.Equal(t, "exit status 2", s.LaunchHistory[0].ErrorMessage)
	assert.Equal(t, "interactive", s.LaunchHistory[0].SessionType)
}

func TestLaunchAgent_AverageDuration(t *testing.T) {
	l, st, clock := newTestLauncher(t, okExec())
	steps := []time.Duration{time.Second, 3 * time.Second, 8 * time.Second}
	for _, d := range steps {
		clock.step = d
		_, err := l.LaunchAgent(context.Background(), "reviewer", executor.SessionInteractive, executor.LaunchOptions{})
		require.NoError(t, err)
	}
	assert.InDelta(t, 4.0, st.Stats["reviewer"].AverageDurationSeconds, 1e-9)
	assert.Equal(t, uint(3), st.Stats["reviewer"].TotalLaunches)
}

func TestLaunchAgent_RecentsMRU(t *testing.T) {
	l, st, _ := newTestLauncher(t, okExec())
	for _, n := range []string{"reviewer", "scribe", "reviewer"} {
		_, err := l.LaunchAgent(context.Background(), n, executor.SessionInteractive, executor.LaunchOptions{})
		require.NoError(t, err)
	}
	assert.Equal(t, store.Recents{"reviewer", "scribe"}, st.Recents)
}

func TestLaunchAgent_InvalidSessionType(t *testing.T) {
	l, st, _ := newTestLauncher(t, okExec())
	_, err := l.LaunchAgent(context.Background(), "scribe", "forever", executor.LaunchOptions{})
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Empty(t, st.Stats)
}

func TestLaunchAgent_ReentrantLaunchIsInvalidState(t *testing.T) {
	var l *Launcher
	var inner error
	l, _, _ = newTestLauncher(t, executor.Func(func(ctx context.Context, a catalog.AgentRecord, _ executor.LaunchOptions) executor.Result {
		_, inner = l.LaunchAgent(ctx, "scribe", executor.SessionInteractive, executor.LaunchOptions{})
		return executor.Result{Success: true}
	}))

	_, err := l.LaunchAgent(context.Background(), "reviewer", executor.SessionInteractive, executor.LaunchOptions{})
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrInvalidState)

	// The guard is released once the launch returns.
	l.exec = okExec()
	_, err = l.LaunchAgent(context.Background(), "reviewer", executor.SessionInteractive, executor.LaunchOptions{})
	assert.NoError(t, err)
}

func TestToggleFavorite_WithoutStats(t *testing.T) {
	l, st, _ := newTestLauncher(t, okExec())
	assert.True(t, l.ToggleFavorite("scribe"))
	s := st.Stats["scribe"]
	require.NotNil(t, s)
	assert.True(t, s.IsFavorite)
	assert.Zero(t, s.TotalLaunches)
	assert.Zero(t, s.SuccessfulLaunches)
	assert.Zero(t, s.FailedLaunches)

	assert.False(t, l.ToggleFavorite("scribe"))
	assert.False(t, st.Favorites.Has("scribe"))
	assert.False(t, st.Stats["scribe"].IsFavorite)
}

func TestDisplayRecordApply_UsageNeverDecreases(t *testing.T) {
	d := &DisplayRecord{Agent: &catalog.AgentRecord{Name: "x"}, UsageCount: 5}
	d.Apply(&store.AgentStats{TotalLaunches: 3})
	assert.Equal(t, uint(5), d.UsageCount)
	d.Apply(&store.AgentStats{TotalLaunches: 6, SuccessfulLaunches: 3})
	assert.Equal(t, uint(6), d.UsageCount)
	assert.InDelta(t, 50.0, d.PerformanceScore, 1e-9)
	d.Apply(nil)
	assert.Equal(t, uint(6), d.UsageCount)
}
