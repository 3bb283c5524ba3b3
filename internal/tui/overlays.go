package tui

import (
	"fmt"
	"slices"

	"github.com/mattn/go-runewidth"

	"github.com/jeanpaul/launchpad/internal/launcher"
)

type overlayLine struct {
	label string
	value string
}

// drawOverlay draws a centred panel with a title and label/value lines.
func drawOverlay(r Renderer, title string, lines []overlayLine) {
	w, h := r.Size()
	labelW := 0
	contentW := runewidth.StringWidth(title) + 4
	for _, l := range lines {
		labelW = max(labelW, runewidth.StringWidth(l.label))
	}
	for _, l := range lines {
		contentW = max(contentW, labelW+2+runewidth.StringWidth(l.value))
	}

	bw := min(w-4, max(40, contentW+4))
	bh := min(h-2, len(lines)+4)
	if bw < 10 || bh < 4 {
		return
	}
	x, y := (w-bw)/2, (h-bh)/2

	r.DrawBox(x, y, bw, bh, overlayBoxStyle)
	r.MoveCursor(x+2, y)
	r.WriteStyled(" "+title+" ", overlayTitleStyle)

	inner := bw - 4
	for i, l := range lines {
		if i >= bh-4 {
			break
		}
		r.MoveCursor(x+2, y+2+i)
		if l.label == "" {
			r.WriteStyled(fit(l.value, inner), overlayTitleStyle)
			continue
		}
		r.WriteStyled(pad(l.label, min(labelW, inner))+"  ", overlayKeyStyle)
		r.WriteStyled(fit(l.value, max(0, inner-labelW-2)), overlayTextStyle)
	}

	footer := " esc to close "
	r.MoveCursor(x+bw-2-runewidth.StringWidth(footer), y+bh-1)
	r.WriteStyled(footer, overlayBoxStyle)
}

func renderHelp(m *Model, r Renderer) {
	bindings := m.keys.helpBindings()
	lines := make([]overlayLine, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, overlayLine{label: h.Key, value: h.Desc})
	}
	drawOverlay(r, "Keys", lines)
}

func renderConfig(m *Model, r Renderer) {
	q := m.state.Query
	dir := "descending"
	if q.Ascending {
		dir = "ascending"
	}
	lines := []overlayLine{
		{"view", m.state.View.String()},
		{"sort", q.SortBy.String() + " " + dir},
		{"favorites only", fmt.Sprint(q.FavoritesOnly)},
		{"session type", string(m.opts.SessionType)},
		{"agents dir", m.opts.AgentsDir},
	}
	if cfg := m.opts.Config; cfg != nil {
		src := cfg.Source
		if src == "" {
			src = "defaults"
		}
		lines = append(lines,
			overlayLine{"data dir", cfg.DataDir},
			overlayLine{"log file", cfg.LogFile()},
			overlayLine{"executor", cfg.Executor.Mode},
			overlayLine{"watch catalog", fmt.Sprint(cfg.WatchCatalog)},
			overlayLine{"config file", src},
		)
	}
	drawOverlay(r, "Settings", lines)
}

// dashboardTop is how many agents the dashboard ranks by usage.
const dashboardTop = 5

func renderDashboard(m *Model, r Renderer) {
	st := m.launcher.Store()

	var total, ok, failed uint
	var favorites int
	for _, d := range m.state.Agents {
		if d.IsFavorite {
			favorites++
		}
	}
	for _, s := range st.Stats {
		total += s.TotalLaunches
		ok += s.SuccessfulLaunches
		failed += s.FailedLaunches
	}
	rate := "-"
	if total > 0 {
		rate = fmt.Sprintf("%.0f%%", 100*float64(ok)/float64(total))
	}

	lines := []overlayLine{
		{"agents", fmt.Sprintf("%d (%d shown)", len(m.state.Agents), len(m.state.Filtered))},
		{"favorites", fmt.Sprint(favorites)},
		{"launches", fmt.Sprintf("%d (%d ok, %d failed)", total, ok, failed)},
		{"success rate", rate},
	}

	ranked := slices.Clone(m.state.Agents)
	slices.SortStableFunc(ranked, func(a, b *launcher.DisplayRecord) int {
		return int(b.UsageCount) - int(a.UsageCount)
	})
	var top []overlayLine
	for _, d := range ranked {
		if len(top) == dashboardTop || d.UsageCount == 0 {
			break
		}
		top = append(top, overlayLine{d.Name(), fmt.Sprintf("%d uses, %s, last %s", d.UsageCount, score(d), lastUsed(d))})
	}
	if len(top) > 0 {
		lines = append(lines, overlayLine{}, overlayLine{value: "Most used"})
		lines = append(lines, top...)
	}

	if len(st.Recents) > 0 {
		lines = append(lines, overlayLine{}, overlayLine{value: "Recent"})
		for i, name := range st.Recents {
			if i == dashboardTop {
				break
			}
			lines = append(lines, overlayLine{fmt.Sprintf("%d.", i+1), name})
		}
	}
	drawOverlay(r, "Dashboard", lines)
}
