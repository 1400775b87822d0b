package viz

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// litDots counts the dots turned on across the whole canvas.
func litDots(c *Canvas) int {
	total := 0
	for _, row := range c.Grid {
		for _, r := range row {
			bits := r - brailleBase
			for bits != 0 {
				total += int(bits & 1)
				bits >>= 1
			}
		}
	}
	return total
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 4)

	// Pixel (3, 5) lands in cell (1, 1), dot row 1 col 1.
	c.Set(3, 5)
	if got := c.Grid[1][1]; got != brailleBase|0x10 {
		t.Errorf("expected cell rune %x, got %x", brailleBase|0x10, got)
	}
	if litDots(c) != 1 {
		t.Errorf("expected 1 lit dot, got %d", litDots(c))
	}

	// Out-of-range coordinates are ignored.
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(c.PixelWidth(), 0)
	c.Set(0, c.PixelHeight())
	if litDots(c) != 1 {
		t.Errorf("expected out-of-range sets ignored, got %d dots", litDots(c))
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(5, 2)

	// A horizontal run along the top pixel row lights the top two dots of
	// each crossed cell.
	c.DrawLine(0, 0, 9, 0)
	for col := 0; col < 5; col++ {
		if got := c.Grid[0][col]; got != brailleBase|0x01|0x08 {
			t.Errorf("cell %d: expected %x, got %x", col, brailleBase|0x01|0x08, got)
		}
	}
	if litDots(c) != 10 {
		t.Errorf("expected 10 dots on a 10-pixel line, got %d", litDots(c))
	}
}

func TestCanvasDrawLineDiagonal(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawLine(0, 0, 7, 7)
	// Bresenham visits one pixel per column on a 45 degree line.
	if litDots(c) != 8 {
		t.Errorf("expected 8 dots on the diagonal, got %d", litDots(c))
	}
}

func TestCanvasBlot(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Blot(8, 8, 1)
	// Radius 1 fills the full 3x3 neighbourhood.
	if litDots(c) != 9 {
		t.Errorf("expected 9 dots for radius-1 blot, got %d", litDots(c))
	}

	c.Clear()
	c.Blot(0, 0, 1)
	// Clipped at the corner: only the lower-right quadrant remains.
	if litDots(c) != 4 {
		t.Errorf("expected 4 dots for corner blot, got %d", litDots(c))
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(6, 3)
	c.DrawLine(0, 0, 11, 11)
	c.Clear()
	if litDots(c) != 0 {
		t.Errorf("expected empty canvas after clear, got %d dots", litDots(c))
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(7, 3)
	s := c.String()

	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if got := utf8.RuneCountInString(line); got != 7 {
			t.Errorf("row %d: expected 7 runes, got %d", i, got)
		}
	}
	if strings.ContainsRune(s, ' ') {
		t.Error("empty cells should render as blank braille, not spaces")
	}
}
