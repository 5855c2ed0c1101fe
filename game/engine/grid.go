package engine

import (
	"encoding/json"
	"fmt"
)

// Grid is the fixed-size board of direction masks. Cells are indexed
// [y][x]. Masks only change while lines are marked during generation.
type Grid struct {
	Width  int
	Height int
	cells  [][]Mask
}

// NewGrid builds an empty width x height grid. Non-positive dimensions are
// a caller bug and panic.
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("engine: invalid grid size %dx%d", width, height))
	}
	cells := make([][]Mask, height)
	for y := range cells {
		cells[y] = make([]Mask, width)
	}
	return &Grid{Width: width, Height: height, cells: cells}
}

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// Contains reports whether p lies on the grid.
func (g *Grid) Contains(p Position) bool {
	return g.InBounds(p.X, p.Y)
}

// Mask returns the direction mask at (x, y). Coordinates off the grid
// panic: the grid's size is fixed for the lifetime of a game.
func (g *Grid) Mask(x, y int) Mask {
	g.mustContain(x, y)
	return g.cells[y][x]
}

// Neighbor returns the cell one step from (x, y) in direction d and
// whether it is on the grid.
func (g *Grid) Neighbor(x, y int, d Direction) (Position, bool) {
	p := Position{X: x, Y: y}.Step(d)
	return p, g.Contains(p)
}

// MarkLine records every step of line into the masks: the outgoing bit on
// the cell the step leaves, the incoming (opposite) bit on the cell it
// enters.
func (g *Grid) MarkLine(line *RailLine) {
	for _, seg := range line.Segments {
		p := seg.Start
		for i := 0; i < seg.Length; i++ {
			g.or(p, seg.Dir.Bit())
			p = p.Step(seg.Dir)
			g.or(p, seg.Dir.Opposite().Bit())
		}
	}
}

// TrackCells counts cells with any track.
func (g *Grid) TrackCells() int {
	n := 0
	for _, row := range g.cells {
		for _, m := range row {
			if m != 0 {
				n++
			}
		}
	}
	return n
}

func (g *Grid) or(p Position, bits Mask) {
	g.mustContain(p.X, p.Y)
	g.cells[p.Y][p.X] |= bits
}

func (g *Grid) mustContain(x, y int) {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("engine: cell (%d,%d) outside %dx%d grid", x, y, g.Width, g.Height))
	}
}

type gridJSON struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Masks  [][]int `json:"masks"`
}

// MarshalJSON encodes masks as nested integer arrays rather than the
// base64 strings encoding/json would produce for byte-sized elements.
func (g *Grid) MarshalJSON() ([]byte, error) {
	out := gridJSON{Width: g.Width, Height: g.Height, Masks: make([][]int, g.Height)}
	for y, row := range g.cells {
		out.Masks[y] = make([]int, len(row))
		for x, m := range row {
			out.Masks[y][x] = int(m)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var in gridJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Width <= 0 || in.Height <= 0 || len(in.Masks) != in.Height {
		return fmt.Errorf("grid: malformed %dx%d grid with %d rows", in.Width, in.Height, len(in.Masks))
	}
	cells := make([][]Mask, in.Height)
	for y, row := range in.Masks {
		if len(row) != in.Width {
			return fmt.Errorf("grid: row %d has %d cells, want %d", y, len(row), in.Width)
		}
		cells[y] = make([]Mask, in.Width)
		for x, m := range row {
			if m < 0 || m > 0xff {
				return fmt.Errorf("grid: mask %d at (%d,%d) out of range", m, x, y)
			}
			cells[y][x] = Mask(m)
		}
	}
	g.Width, g.Height, g.cells = in.Width, in.Height, cells
	return nil
}
