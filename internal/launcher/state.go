package launcher

import "strings"

// View is the layout used for the agent list.
type View int

const (
	ViewGrid View = iota
	ViewList
	ViewTable
	ViewCompact
)

var viewNames = []string{"grid", "list", "table", "compact"}

func (v View) String() string {
	if int(v) >= 0 && int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "unknown"
}

// ParseView accepts the names printed by String; anything else is ok=false.
func ParseView(s string) (View, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range viewNames {
		if n == s {
			return View(i), true
		}
	}
	return ViewGrid, false
}

// Overlay is the modal panel drawn over the current view, if any.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayConfig
	OverlayDashboard
)

func (o Overlay) String() string {
	switch o {
	case OverlayNone:
		return "none"
	case OverlayHelp:
		return "help"
	case OverlayConfig:
		return "config"
	case OverlayDashboard:
		return "dashboard"
	}
	return "unknown"
}

// State is the complete launcher UI state. Filtered always holds valid
// indices into Agents consistent with Query, and Selected is a valid position
// in Filtered (or 0 when Filtered is empty). Mutate Query through the
// methods below, or call Recompute after changing it directly.
type State struct {
	View     View
	Overlay  Overlay
	Selected int
	Query    Query
	Agents   []*DisplayRecord
	Filtered []int
}

// NewState builds a state over agents and computes the initial view.
func NewState(agents []*DisplayRecord, view View, q Query) *State {
	s := &State{View: view, Query: q, Agents: agents}
	s.Recompute()
	return s
}

// Recompute reruns the filter/sort pipeline and re-clamps the selection.
func (s *State) Recompute() {
	s.Filtered = FilterSort(s.Agents, s.Query)
	s.clamp()
}

func (s *State) clamp() {
	switch {
	case len(s.Filtered) == 0:
		s.Selected = 0
	case s.Selected >= len(s.Filtered):
		s.Selected = len(s.Filtered) - 1
	case s.Selected < 0:
		s.Selected = 0
	}
}

// Move shifts the selection by delta without wrapping.
func (s *State) Move(delta int) {
	s.Selected += delta
	s.clamp()
}

// Selection returns the selected record, or false when nothing is listed.
func (s *State) Selection() (*DisplayRecord, bool) {
	if len(s.Filtered) == 0 {
		return nil, false
	}
	return s.Agents[s.Filtered[s.Selected]], true
}

// Find returns the display record for name.
func (s *State) Find(name string) (*DisplayRecord, bool) {
	for _, r := range s.Agents {
		if r.Agent.Name == name {
			return r, true
		}
	}
	return nil, false
}

func (s *State) SetSearch(q string) {
	if s.Query.Search == q {
		return
	}
	s.Query.Search = q
	s.Recompute()
}

func (s *State) SetTags(tags []string) {
	s.Query.Tags = tags
	s.Recompute()
}

func (s *State) SetCapabilities(caps []string) {
	s.Query.Capabilities = caps
	s.Recompute()
}

func (s *State) ToggleFavoritesOnly() {
	s.Query.FavoritesOnly = !s.Query.FavoritesOnly
	s.Recompute()
}

func (s *State) SetSort(f SortField, ascending bool) {
	s.Query.SortBy = f
	s.Query.Ascending = ascending
	s.Recompute()
}

// ToggleOverlay opens o, or closes it when it is already open.
func (s *State) ToggleOverlay(o Overlay) {
	if s.Overlay == o {
		s.Overlay = OverlayNone
		return
	}
	s.Overlay = o
}

// ReplaceAgents swaps in a rebuilt display list, keeping the selection on the
// same agent name when it is still listed.
func (s *State) ReplaceAgents(agents []*DisplayRecord) {
	var keep string
	if r, ok := s.Selection(); ok {
		keep = r.Agent.Name
	}
	s.Agents = agents
	s.Recompute()
	if keep == "" {
		return
	}
	for i, idx := range s.Filtered {
		if s.Agents[idx].Agent.Name == keep {
			s.Selected = i
			return
		}
	}
}
