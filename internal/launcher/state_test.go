package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/launchpad/internal/catalog"
	"github.com/jeanpaul/launchpad/internal/store"
)

func TestState_MoveClampsWithoutWrap(t *testing.T) {
	s := NewState(sampleRecords(t), ViewList, Query{})
	s.Move(-1)
	assert.Equal(t, 0, s.Selected)
	s.Move(1)
	s.Move(1)
	s.Move(1)
	s.Move(1)
	assert.Equal(t, 3, s.Selected)
}

func TestState_ShrinkReclampsSelection(t *testing.T) {
	s := NewState(sampleRecords(t), ViewGrid, Query{})
	s.Move(3)
	require.Equal(t, 3, s.Selected)

	s.SetTags([]string{"ci"})
	require.Len(t, s.Filtered, 2)
	assert.LessOrEqual(t, s.Selected, len(s.Filtered)-1)

	s.SetSearch("nothing matches this")
	assert.Empty(t, s.Filtered)
	assert.Equal(t, 0, s.Selected)
	_, ok := s.Selection()
	assert.False(t, ok)
}

func TestState_EmptyCatalog(t *testing.T) {
	s := NewState(Build(nil, store.NewFavorites(), nil), ViewGrid, Query{})
	assert.Empty(t, s.Filtered)
	s.Move(1)
	s.Move(-1)
	assert.Equal(t, 0, s.Selected)
}

func TestState_ToggleOverlay(t *testing.T) {
	s := NewState(nil, ViewGrid, Query{})
	s.ToggleOverlay(OverlayHelp)
	assert.Equal(t, OverlayHelp, s.Overlay)
	s.ToggleOverlay(OverlayDashboard)
	assert.Equal(t, OverlayDashboard, s.Overlay)
	s.ToggleOverlay(OverlayDashboard)
	assert.Equal(t, OverlayNone, s.Overlay)
}

func TestState_ReplaceAgentsKeepsSelectedName(t *testing.T) {
	s := NewState(sampleRecords(t), ViewGrid, Query{})
	s.Move(2) // Builder
	agents := sampleAgents()
	rebuilt := Build(append([]catalog.AgentRecord{{Name: "aaa"}}, agents...), store.NewFavorites(), nil)

	s.ReplaceAgents(rebuilt)
	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, "Builder", sel.Name())
}

func TestBuild(t *testing.T) {
	assert.Empty(t, Build(nil, nil, nil))

	recs := sampleRecords(t)
	require.Len(t, recs, 4)
	assert.Equal(t, StatusReady, recs[0].Status)
	assert.Equal(t, StatusReady, recs[1].Status)
	assert.Equal(t, StatusRunning, recs[2].Status)
	assert.Equal(t, StatusFailed, recs[3].Status)
	assert.True(t, recs[1].IsFavorite)
	assert.False(t, recs[0].IsFavorite)
	assert.Equal(t, uint(4), recs[0].UsageCount)
	assert.Equal(t, uint(0), recs[2].UsageCount)
	assert.Nil(t, recs[2].LastUsed)
	assert.InDelta(t, 75.0, recs[0].PerformanceScore, 1e-9)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusReady, StatusOf(catalog.StateDiscovered))
	assert.Equal(t, StatusLoading, StatusOf(catalog.StateLoading))
	assert.Equal(t, StatusReady, StatusOf(catalog.StateLoaded))
	assert.Equal(t, StatusRunning, StatusOf(catalog.StateRunning))
	assert.Equal(t, StatusFailed, StatusOf(catalog.StateFailed))
	assert.Equal(t, StatusConfiguring, StatusOf(catalog.StateUnloaded))
}
