package tui

import (
	"strings"
	"testing"
)

func TestCanvasClipsAtEdge(t *testing.T) {
	c := NewCanvas(8, 2)
	c.MoveCursor(5, 0)
	c.Write("abcdef")
	c.MoveCursor(0, 5)
	c.Write("offscreen")

	if got := c.Text(); got != "     abc\n" {
		t.Errorf("Text() = %q", got)
	}
}

func TestCanvasWideRunes(t *testing.T) {
	c := NewCanvas(6, 1)
	c.Write("日本")
	if got := c.Text(); got != "日本" {
		t.Errorf("Text() = %q", got)
	}

	// Overwriting the right half of a wide rune blanks its left half.
	c.MoveCursor(1, 0)
	c.Write("x")
	if got := c.Text(); got != " x本" {
		t.Errorf("after overwrite Text() = %q", got)
	}

	// A wide rune that does not fit is dropped.
	c.MoveCursor(5, 0)
	c.Write("語")
	if got := c.Text(); got != " x本" {
		t.Errorf("wide rune at edge Text() = %q", got)
	}
}

func TestCanvasDrawBox(t *testing.T) {
	c := NewCanvas(6, 4)
	c.Write("xxxxxx")
	c.DrawBox(0, 0, 5, 3, Style{})

	lines := strings.Split(c.Text(), "\n")
	want := []string{"╭───╮x", "│   │", "╰───╯", ""}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestCanvasFlushKeepsText(t *testing.T) {
	c := NewCanvas(10, 2)
	c.WriteStyled("hi", headerStyle)
	c.MoveCursor(0, 1)
	c.Write("there")
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	out := c.String()
	if !strings.Contains(out, "hi") || !strings.Contains(out, "there") {
		t.Errorf("frame lost text: %q", out)
	}
	if n := strings.Count(out, "\n"); n != 1 {
		t.Errorf("frame has %d newlines, want 1", n)
	}
}

func TestFitAndPad(t *testing.T) {
	if got := fit("launchpad", 5); got != "laun…" {
		t.Errorf("fit = %q", got)
	}
	if got := pad("ab", 4); got != "ab  " {
		t.Errorf("pad = %q", got)
	}
	if got := fit("x", 0); got != "" {
		t.Errorf("fit to zero = %q", got)
	}
}
