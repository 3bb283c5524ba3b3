package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/jeanpaul/launchpad/internal/launcher"
)

type rect struct {
	x, y, w, h int
}

// mode pairs the renderer and key handler of one overlay state.
type mode struct {
	render    func(m *Model, r Renderer)
	handleKey func(m *Model, msg tea.KeyMsg) tea.Cmd
}

var modes = map[launcher.Overlay]mode{
	launcher.OverlayNone:      {render: func(*Model, Renderer) {}, handleKey: handleMainKey},
	launcher.OverlayHelp:      {render: renderHelp, handleKey: overlayKeys(func(k keyMap) key.Binding { return k.Help })},
	launcher.OverlayConfig:    {render: renderConfig, handleKey: overlayKeys(func(k keyMap) key.Binding { return k.Config })},
	launcher.OverlayDashboard: {render: renderDashboard, handleKey: overlayKeys(func(k keyMap) key.Binding { return k.Dashboard })},
}

var viewRenderers = map[launcher.View]func(m *Model, r Renderer, area rect){
	launcher.ViewGrid:    renderGrid,
	launcher.ViewList:    renderList,
	launcher.ViewTable:   renderTable,
	launcher.ViewCompact: renderCompact,
}

// render draws one full frame: header, search summary, the current view,
// the status bar and any overlay, then flushes once.
func (m *Model) render(r Renderer) error {
	r.Clear()
	w, h := r.Size()

	m.drawHeader(r, w)
	m.drawSummary(r, w)
	r.MoveCursor(0, 2)
	r.WriteStyled(strings.Repeat("─", w), separatorStyle)

	area := rect{x: 0, y: 3, w: w, h: max(0, h-4)}
	if len(m.state.Filtered) == 0 {
		m.drawEmpty(r, area)
	} else if draw, ok := viewRenderers[m.state.View]; ok {
		draw(m, r, area)
	}

	m.drawStatusBar(r, w, h-1)
	modes[m.state.Overlay].render(m, r)
	return r.Flush()
}

func (m *Model) drawHeader(r Renderer, w int) {
	r.MoveCursor(0, 0)
	r.WriteStyled(pad(" ◆ launchpad", w), headerStyle)

	q := m.state.Query
	arrow := "↓"
	if q.Ascending {
		arrow = "↑"
	}
	sortLabel := q.SortBy.String()
	if q.SortBy != launcher.SortByCatalog {
		sortLabel += " " + arrow
	}
	info := fmt.Sprintf(" %d/%d agents │ %s │ sort: %s ",
		len(m.state.Filtered), len(m.state.Agents), m.state.View, sortLabel)
	if iw := runewidth.StringWidth(info); iw < w-14 {
		r.MoveCursor(w-iw, 0)
		r.WriteStyled(info, headerDimStyle)
	}
}

func (m *Model) drawSummary(r Renderer, w int) {
	r.MoveCursor(0, 1)
	q := m.state.Query

	if m.searching {
		r.WriteStyled(" / ", searchStyle)
		r.WriteStyled(m.search.Value(), textStyle)
		r.WriteStyled("▏", searchStyle)
		return
	}

	var parts []string
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", q.Search))
	}
	if len(q.Tags) > 0 {
		parts = append(parts, "tags: "+strings.Join(q.Tags, "+"))
	}
	if len(q.Capabilities) > 0 {
		parts = append(parts, "capabilities: "+strings.Join(q.Capabilities, "+"))
	}
	if q.FavoritesOnly {
		parts = append(parts, "★ favorites only")
	}
	if len(parts) == 0 {
		r.WriteStyled(fit(" / search   ? help   d dashboard", w), dimStyle)
		return
	}
	r.WriteStyled(fit(" "+strings.Join(parts, "   "), w), summaryStyle)
}

func (m *Model) drawEmpty(r Renderer, area rect) {
	if area.h == 0 {
		return
	}
	msg := "No agents match the current filters. Press esc to clear the search."
	if len(m.state.Agents) == 0 {
		dir := m.opts.AgentsDir
		if dir == "" {
			dir = "the agents directory"
		}
		msg = fmt.Sprintf("No agents found in %s. Create one with `launchpad new <name>`.", dir)
	}
	r.MoveCursor(area.x+2, area.y+min(1, area.h-1))
	r.WriteStyled(fit(msg, area.w-4), dimStyle)
}

func (m *Model) drawStatusBar(r Renderer, w, y int) {
	if y < 3 {
		return
	}
	r.MoveCursor(0, y)
	style := statusBarStyle
	text := " enter launch  / search  * favorite  f favorites  s sort  r reverse  ? help  q quit"
	if m.status != "" {
		text = " " + m.status
		switch m.statusKind {
		case statusOK:
			style = statusOKStyle
		case statusErr:
			style = statusErrStyle
		}
	}
	r.WriteStyled(pad(text, w), style)
}

// scrollOffset returns the first visible item so that sel stays on screen.
func scrollOffset(sel, visible int) int {
	if visible <= 0 || sel < visible {
		return 0
	}
	return sel - visible + 1
}

func favMark(d *launcher.DisplayRecord) string {
	if d.IsFavorite {
		return "★"
	}
	return " "
}

func lastUsed(d *launcher.DisplayRecord) string {
	if d.LastUsed == nil {
		return "never"
	}
	return d.LastUsed.Local().Format("2006-01-02 15:04")
}

func score(d *launcher.DisplayRecord) string {
	if d.UsageCount == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", d.PerformanceScore)
}

func renderList(m *Model, r Renderer, area rect) {
	s := m.state
	off := scrollOffset(s.Selected, area.h)
	for row := 0; row < area.h && off+row < len(s.Filtered); row++ {
		i := off + row
		d := s.Agents[s.Filtered[i]]
		y := area.y + row
		r.MoveCursor(area.x, y)
		if i == s.Selected {
			line := fmt.Sprintf("▶ %s %s %s %s", favMark(d), pad(d.Name(), 22), pad(d.Status.String(), 12), d.Agent.Description)
			r.WriteStyled(pad(line, area.w), selectedStyle)
			continue
		}
		r.WriteStyled("  ", textStyle)
		r.WriteStyled(favMark(d)+" ", favoriteStyle)
		r.WriteStyled(pad(d.Name(), 22)+" ", nameStyle)
		r.WriteStyled(pad(d.Status.String(), 12)+" ", statusStyle(d.Status.String()))
		r.WriteStyled(fit(d.Agent.Description, max(0, area.w-41)), dimStyle)
	}
}

var tableColumns = []struct {
	title string
	width int
}{
	{"", 2}, {"Name", 22}, {"Version", 9}, {"Author", 16}, {"Uses", 6}, {"Score", 7}, {"Last used", 17}, {"Status", 12},
}

func tableCells(d *launcher.DisplayRecord) []string {
	return []string{
		favMark(d), d.Name(), d.Agent.Version, d.Agent.Author,
		fmt.Sprint(d.UsageCount), score(d), lastUsed(d), d.Status.String(),
	}
}

func renderTable(m *Model, r Renderer, area rect) {
	if area.h == 0 {
		return
	}
	r.MoveCursor(area.x, area.y)
	var header strings.Builder
	for _, c := range tableColumns {
		header.WriteString(pad(c.title, c.width) + " ")
	}
	r.WriteStyled(fit(header.String(), area.w), columnStyle)

	s := m.state
	rows := area.h - 1
	off := scrollOffset(s.Selected, rows)
	for row := 0; row < rows && off+row < len(s.Filtered); row++ {
		i := off + row
		d := s.Agents[s.Filtered[i]]
		var line strings.Builder
		for c, cell := range tableCells(d) {
			line.WriteString(pad(cell, tableColumns[c].width) + " ")
		}
		style := textStyle
		if i == s.Selected {
			style = selectedStyle
		}
		r.MoveCursor(area.x, area.y+1+row)
		r.WriteStyled(pad(line.String(), area.w), style)
	}
}

const compactCellWidth = 24

func renderCompact(m *Model, r Renderer, area rect) {
	s := m.state
	cols := max(1, area.w/compactCellWidth)
	off := scrollOffset(s.Selected/cols, area.h) * cols
	for i := off; i < len(s.Filtered); i++ {
		row := (i - off) / cols
		if row >= area.h {
			break
		}
		d := s.Agents[s.Filtered[i]]
		r.MoveCursor(area.x+(i%cols)*compactCellWidth, area.y+row)
		if i == s.Selected {
			r.WriteStyled(pad("▶"+favMark(d)+d.Name(), compactCellWidth-1), selectedStyle)
			continue
		}
		r.WriteStyled("●", statusStyle(d.Status.String()))
		r.WriteStyled(favMark(d), favoriteStyle)
		r.WriteStyled(pad(d.Name(), compactCellWidth-3), textStyle)
	}
}

const (
	cardWidth  = 30
	cardHeight = 5
)

func renderGrid(m *Model, r Renderer, area rect) {
	visible := area.h / cardHeight
	if visible == 0 {
		renderList(m, r, area)
		return
	}
	s := m.state
	cols := max(1, area.w/cardWidth)
	off := scrollOffset(s.Selected/cols, visible) * cols
	for i := off; i < len(s.Filtered); i++ {
		row := (i - off) / cols
		if row >= visible {
			break
		}
		d := s.Agents[s.Filtered[i]]
		x := area.x + (i%cols)*cardWidth
		y := area.y + row*cardHeight
		inner := cardWidth - 5

		box, name := cardStyle, nameStyle
		if i == s.Selected {
			box, name = cardSelStyle, selectedStyle
		}
		r.DrawBox(x, y, cardWidth-1, cardHeight, box)

		r.MoveCursor(x+2, y+1)
		r.WriteStyled(favMark(d), favoriteStyle)
		r.WriteStyled(" ", textStyle)
		r.WriteStyled(pad(d.Name(), inner-1), name)

		r.MoveCursor(x+2, y+2)
		r.WriteStyled(pad(d.Status.String(), 12), statusStyle(d.Status.String()))
		r.WriteStyled(fit(d.Agent.Version, inner-12), dimStyle)

		r.MoveCursor(x+2, y+3)
		r.WriteStyled(fit(fmt.Sprintf("%d uses · %s", d.UsageCount, score(d)), inner), dimStyle)
	}
}
