package engine

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// assertConnected checks that every track bit has its reverse on the
// neighbouring cell.
func assertConnected(t *testing.T, g *Grid) {
	t.Helper()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			m := g.Mask(x, y)
			for _, d := range m.Directions() {
				n, ok := g.Neighbor(x, y, d)
				if !ok {
					continue
				}
				if !g.Mask(n.X, n.Y).Has(d.Opposite()) {
					t.Fatalf("Cell (%d,%d) has %s but %s lacks %s", x, y, d, n, d.Opposite())
				}
			}
		}
	}
}

func TestNewGrid(t *testing.T) {
	g := NewGrid(5, 3)
	if g.Width != 5 || g.Height != 3 {
		t.Errorf("Expected 5x3 grid, got %dx%d", g.Width, g.Height)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if g.Mask(x, y) != 0 {
				t.Errorf("Expected empty cell at (%d,%d)", x, y)
			}
		}
	}
	if g.TrackCells() != 0 {
		t.Errorf("Expected no track, got %d cells", g.TrackCells())
	}
}

func TestGridContractViolationsPanic(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"zero width", func() { NewGrid(0, 4) }},
		{"negative height", func() { NewGrid(4, -1) }},
		{"mask off grid", func() { NewGrid(4, 4).Mask(4, 0) }},
		{"toggle off grid", func() { ToggleSwitch(nil, NewGrid(4, 4), -1, 2) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Expected panic")
				}
			}()
			test.fn()
		})
	}
}

func TestMarkLine(t *testing.T) {
	g := NewGrid(8, 8)
	g.MarkLine(&RailLine{Segments: []RailSegment{
		{Start: Position{X: 0, Y: 3}, Dir: East, Length: 3},
		{Start: Position{X: 3, Y: 3}, Dir: SouthEast, Length: 2},
	}})

	tests := []struct {
		x, y int
		want Mask
	}{
		{0, 3, East.Bit()},
		{1, 3, East.Bit() | West.Bit()},
		{3, 3, West.Bit() | SouthEast.Bit()},
		{4, 4, NorthWest.Bit() | SouthEast.Bit()},
		{5, 5, NorthWest.Bit()},
		{6, 6, 0},
	}
	for _, test := range tests {
		if got := g.Mask(test.x, test.y); got != test.want {
			t.Errorf("(%d,%d): expected mask %08b, got %08b", test.x, test.y, test.want, got)
		}
	}
	assertConnected(t, g)
}

func TestGridJSON(t *testing.T) {
	g := NewGrid(4, 3)
	g.MarkLine(&RailLine{Segments: []RailSegment{{Start: Position{X: 0, Y: 1}, Dir: East, Length: 3}}})

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Failed to marshal grid: %v", err)
	}
	expected := `{"width":4,"height":3,"masks":[[0,0,0,0],[8,136,136,128],[0,0,0,0]]}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}

	var decoded Grid
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal grid: %v", err)
	}
	if diff := cmp.Diff(g, &decoded, cmp.AllowUnexported(Grid{})); diff != "" {
		t.Errorf("Grid mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`{"width":2,"height":2,"masks":[[0,0]]}`), &decoded); err == nil {
		t.Error("Expected error for missing rows")
	}
}
