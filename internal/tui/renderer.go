package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Style is the drawing style of a run of cells. Empty colors mean the
// terminal default.
type Style struct {
	Foreground lipgloss.Color
	Background lipgloss.Color
	Bold       bool
}

func (s Style) toLipgloss() lipgloss.Style {
	st := lipgloss.NewStyle().Bold(s.Bold)
	if s.Foreground != "" {
		st = st.Foreground(s.Foreground)
	}
	if s.Background != "" {
		st = st.Background(s.Background)
	}
	return st
}

// Renderer is the drawing surface the console paints each frame on.
type Renderer interface {
	Clear()
	MoveCursor(x, y int)
	Write(text string)
	WriteStyled(text string, style Style)
	DrawBox(x, y, w, h int, style Style)
	Size() (width, height int)
	Flush() error
}

type cell struct {
	r     rune
	style Style
	// cont marks the right half of a double-width rune.
	cont bool
}

// Canvas is an in-memory Renderer. Flush turns the cell grid into a styled
// string that bubbletea prints as the frame.
type Canvas struct {
	w, h  int
	x, y  int
	cells [][]cell
	frame string
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]cell, c.h)
	for i := range c.cells {
		c.cells[i] = make([]cell, c.w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	c.x, c.y = 0, 0
}

func (c *Canvas) MoveCursor(x, y int) {
	c.x, c.y = x, y
}

func (c *Canvas) Write(text string) {
	c.WriteStyled(text, Style{})
}

// WriteStyled draws text from the cursor to the right, clipping at the edge.
// Newlines and tabs are drawn as spaces.
func (c *Canvas) WriteStyled(text string, style Style) {
	if c.y < 0 || c.y >= c.h {
		return
	}
	row := c.cells[c.y]
	for _, r := range text {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if c.x >= 0 && c.x+rw <= c.w {
			// Overwriting half of a wide rune blanks the other half.
			if row[c.x].cont && c.x > 0 {
				row[c.x-1] = cell{r: ' ', style: row[c.x-1].style}
			}
			if end := c.x + rw; end < c.w && row[end].cont {
				row[end] = cell{r: ' ', style: row[end].style}
			}
			row[c.x] = cell{r: r, style: style}
			if rw == 2 {
				row[c.x+1] = cell{style: style, cont: true}
			}
		}
		c.x += rw
	}
}

// DrawBox draws a rounded border and fills its interior with blanks.
func (c *Canvas) DrawBox(x, y, w, h int, style Style) {
	if w < 2 || h < 2 {
		return
	}
	b := lipgloss.RoundedBorder()
	inner := strings.Repeat(" ", w-2)
	for row := y; row < y+h; row++ {
		c.MoveCursor(x, row)
		switch row {
		case y:
			c.WriteStyled(b.TopLeft+strings.Repeat(b.Top, w-2)+b.TopRight, style)
		case y + h - 1:
			c.WriteStyled(b.BottomLeft+strings.Repeat(b.Bottom, w-2)+b.BottomRight, style)
		default:
			c.WriteStyled(b.Left, style)
			c.WriteStyled(inner, Style{Background: style.Background})
			c.WriteStyled(b.Right, style)
		}
	}
}

// Flush renders the grid into the frame returned by String.
func (c *Canvas) Flush() error {
	var sb strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		var cur Style
		emit := func() {
			if run.Len() == 0 {
				return
			}
			if cur == (Style{}) {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(cur.toLipgloss().Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.cont {
				continue
			}
			if cl.style != cur {
				emit()
				cur = cl.style
			}
			run.WriteRune(cl.r)
		}
		emit()
	}
	c.frame = sb.String()
	return nil
}

// String is the last flushed frame.
func (c *Canvas) String() string { return c.frame }

// Text returns the current grid without styling, for tests and logs.
func (c *Canvas) Text() string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		var sb strings.Builder
		for _, cl := range row {
			if !cl.cont {
				sb.WriteRune(cl.r)
			}
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return strings.Join(lines, "\n")
}

// fit truncates s to w columns, marking the cut with an ellipsis.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}

// pad truncates or right-pads s to exactly w columns.
func pad(s string, w int) string {
	return runewidth.FillRight(fit(s, w), w)
}
