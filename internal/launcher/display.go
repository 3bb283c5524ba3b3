package launcher

import (
	"time"

	"github.com/jeanpaul/launchpad/internal/catalog"
	"github.com/jeanpaul/launchpad/internal/store"
)

// Status is the launcher-facing state of an agent.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusRunning
	StatusFailed
	StatusConfiguring
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusLoading:
		return "loading"
	case StatusRunning:
		return "running"
	case StatusFailed:
		return "failed"
	case StatusConfiguring:
		return "configuring"
	}
	return "unknown"
}

// StatusOf maps a catalog discovery state onto a display status.
func StatusOf(s catalog.DiscoveryState) Status {
	switch s {
	case catalog.StateLoading:
		return StatusLoading
	case catalog.StateRunning:
		return StatusRunning
	case catalog.StateFailed:
		return StatusFailed
	case catalog.StateUnloaded:
		return StatusConfiguring
	default:
		return StatusReady
	}
}

// DisplayRecord joins a catalog record with the user's favorites and stats.
type DisplayRecord struct {
	Agent            *catalog.AgentRecord
	IsFavorite       bool
	LastUsed         *time.Time
	UsageCount       uint
	PerformanceScore float64
	Status           Status
}

// Name is shorthand for the agent's name.
func (d *DisplayRecord) Name() string { return d.Agent.Name }

// Apply refreshes the usage fields from st. A nil st leaves usage untouched.
// UsageCount never decreases.
func (d *DisplayRecord) Apply(st *store.AgentStats) {
	if st == nil {
		return
	}
	if st.TotalLaunches > d.UsageCount {
		d.UsageCount = st.TotalLaunches
	}
	if st.LastLaunch != nil {
		t := *st.LastLaunch
		d.LastUsed = &t
	}
	d.PerformanceScore = st.SuccessRate()
}

// Build creates one display record per agent, in catalog order.
func Build(agents []catalog.AgentRecord, favorites store.Favorites, stats map[string]*store.AgentStats) []*DisplayRecord {
	out := make([]*DisplayRecord, len(agents))
	for i := range agents {
		a := &agents[i]
		d := &DisplayRecord{
			Agent:      a,
			IsFavorite: favorites.Has(a.Name),
			Status:     StatusOf(a.State),
		}
		d.Apply(stats[a.Name])
		out[i] = d
	}
	return out
}
