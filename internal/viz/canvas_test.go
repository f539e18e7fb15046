package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 0)

	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("cell 0 = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != blank|0x80 {
		t.Errorf("cell 1 = %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 3) || c.IsSet(-1, -1) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("Clear left a pixel on")
	}
}

func TestDrawCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(20, 20, 8)

	for _, p := range [][2]int{{28, 20}, {12, 20}, {20, 28}, {20, 12}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected (%d, %d) on the outline", p[0], p[1])
		}
	}
	if c.IsSet(20, 20) {
		t.Error("outline should not fill the center")
	}
}

func TestDrawCircle_Point(t *testing.T) {
	c := NewCanvas(4, 4)
	c.DrawCircle(3, 3, 0)
	if !c.IsSet(3, 3) {
		t.Error("zero radius should plot the center")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if len([]rune(lines[0])) != 3 {
		t.Errorf("expected 3 cells, got %d", len([]rune(lines[0])))
	}
}
