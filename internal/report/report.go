// Package report summarises launch statistics for the terminal, for an
// agent's info page and as an XLSX workbook.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jeanpaul/launchpad/internal/catalog"
	"github.com/jeanpaul/launchpad/internal/store"
)

// Row is one agent's line in a usage report.
type Row struct {
	Name        string
	Favorite    bool
	Total       uint
	Succeeded   uint
	Failed      uint
	SuccessRate float64
	AvgSeconds  float64
	LastLaunch  *time.Time
	// Orphaned marks stats for an agent that is no longer in the catalog.
	Orphaned bool
}

// Rows builds one row per catalog agent, in catalog order, followed by
// agents that only exist in the stats (sorted by name).
func Rows(agents []catalog.AgentRecord, favorites store.Favorites, stats map[string]*store.AgentStats) []Row {
	out := make([]Row, 0, len(agents))
	seen := make(map[string]bool, len(agents))
	for _, a := range agents {
		seen[a.Name] = true
		out = append(out, row(a.Name, favorites, stats[a.Name]))
	}

	var orphans []string
	for name := range stats {
		if !seen[name] {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	for _, name := range orphans {
		r := row(name, favorites, stats[name])
		r.Orphaned = true
		out = append(out, r)
	}
	return out
}

func row(name string, favorites store.Favorites, st *store.AgentStats) Row {
	r := Row{Name: name, Favorite: favorites.Has(name)}
	if st == nil {
		return r
	}
	r.Total = st.TotalLaunches
	r.Succeeded = st.SuccessfulLaunches
	r.Failed = st.FailedLaunches
	r.SuccessRate = st.SuccessRate()
	r.AvgSeconds = st.AverageDurationSeconds
	r.LastLaunch = st.LastLaunch
	return r
}

var headers = []string{"Agent", "Fav", "Launches", "OK", "Failed", "Success", "Avg", "Last used"}

func (r Row) cells() []string {
	name := r.Name
	if r.Orphaned {
		name += " (removed)"
	}
	fav := ""
	if r.Favorite {
		fav = "*"
	}
	last := "never"
	if r.LastLaunch != nil {
		last = r.LastLaunch.Local().Format("2006-01-02 15:04")
	}
	rate := "-"
	if r.Total > 0 {
		rate = fmt.Sprintf("%.0f%%", r.SuccessRate)
	}
	return []string{
		name,
		fav,
		fmt.Sprint(r.Total),
		fmt.Sprint(r.Succeeded),
		fmt.Sprint(r.Failed),
		rate,
		fmt.Sprintf("%.1fs", r.AvgSeconds),
		last,
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF41")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = cellStyle.Foreground(lipgloss.Color("#5A5A5A"))
)

// Table renders rows as a bordered terminal table.
func Table(rows []Row) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#2D2D2D"))).
		Headers(headers...).
		StyleFunc(func(r, _ int) lipgloss.Style {
			switch {
			case r == table.HeaderRow:
				return headerStyle
			case r >= 0 && r < len(rows) && rows[r].Orphaned:
				return dimStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r.cells()...)
	}
	return t.String()
}

// Info renders an agent's manifest and stats as Markdown.
func Info(a catalog.AgentRecord, favorite bool, st *store.AgentStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", a.Name)
	if a.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", a.Description)
	}

	fmt.Fprintf(&sb, "| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Version | %s |\n", orDash(a.Version))
	fmt.Fprintf(&sb, "| Author | %s |\n", orDash(a.Author))
	fmt.Fprintf(&sb, "| State | %s |\n", a.State)
	fmt.Fprintf(&sb, "| Favorite | %t |\n", favorite)
	if len(a.Tags) > 0 {
		fmt.Fprintf(&sb, "| Tags | %s |\n", strings.Join(a.Tags, ", "))
	}
	if len(a.Capabilities) > 0 {
		fmt.Fprintf(&sb, "| Capabilities | %s |\n", strings.Join(a.Capabilities, ", "))
	}
	if a.Command != "" {
		fmt.Fprintf(&sb, "| Command | `%s` |\n", strings.TrimSpace(a.Command+" "+strings.Join(a.Args, " ")))
	}
	if a.Path != "" {
		fmt.Fprintf(&sb, "| Manifest | `%s` |\n", a.Path)
	}
	if a.Err != "" {
		fmt.Fprintf(&sb, "\n> **Manifest error:** %s\n", a.Err)
	}

	sb.WriteString("\n## Usage\n\n")
	if st == nil || st.TotalLaunches == 0 {
		sb.WriteString("Never launched.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "- Launches: %d (%d ok, %d failed)\n", st.TotalLaunches, st.SuccessfulLaunches, st.FailedLaunches)
	fmt.Fprintf(&sb, "- Success rate: %.0f%%\n", st.SuccessRate())
	fmt.Fprintf(&sb, "- Average duration: %.1fs\n", st.AverageDurationSeconds)
	if st.LastLaunch != nil {
		fmt.Fprintf(&sb, "- Last launch: %s\n", st.LastLaunch.Local().Format(time.RFC1123))
	}

	if n := len(st.LaunchHistory); n > 0 {
		sb.WriteString("\n### Recent launches\n\n| When | Session | Result | Duration |\n|---|---|---|---|\n")
		start := max(0, n-5)
		for i := n - 1; i >= start; i-- {
			h := st.LaunchHistory[i]
			result := "ok"
			if !h.Success {
				result = "failed: " + h.ErrorMessage
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %.1fs |\n",
				h.Timestamp.Local().Format("2006-01-02 15:04"), h.SessionType, result, h.DurationSeconds)
		}
	}
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
