package engine

import (
	"fmt"
	"math/rand/v2"
)

// Turn probabilities for the random walk.
const (
	turnLeftAbove  = 0.90
	turnRightAbove = 0.95
	// straightRun is how many steps a segment runs before it may turn.
	straightRun = 3
)

// RailSegment is a straight run of Length steps in Dir from Start.
type RailSegment struct {
	Start  Position  `json:"start"`
	Dir    Direction `json:"dir"`
	Length int       `json:"length"`
}

// End returns the cell the segment finishes on.
func (s RailSegment) End() Position {
	dx, dy := s.Dir.Delta()
	return Position{X: s.Start.X + dx*s.Length, Y: s.Start.Y + dy*s.Length}
}

// RailLine is one connected path of segments, ordered from the grid edge it
// started on.
type RailLine struct {
	Segments []RailSegment `json:"segments"`
}

// Length returns the number of steps across all segments.
func (l *RailLine) Length() int {
	n := 0
	for _, s := range l.Segments {
		n += s.Length
	}
	return n
}

// Points returns the polyline through every segment start and the end of
// the last segment.
func (l *RailLine) Points() []Position {
	if len(l.Segments) == 0 {
		return nil
	}
	pts := make([]Position, 0, len(l.Segments)+1)
	for _, s := range l.Segments {
		pts = append(pts, s.Start)
	}
	return append(pts, l.Segments[len(l.Segments)-1].End())
}

// Start returns the first cell and heading of the line.
func (l *RailLine) Start() (Position, Direction) {
	s := l.Segments[0]
	return s.Start, s.Dir
}

// GenerateLine random-walks a new line across g, retrying until the line
// is at least MinLineLength steps, and marks it into g. It gives up with
// ErrGenerationFailed after MaxGenerateAttempts tries.
func GenerateLine(g *Grid, rng *rand.Rand) (*RailLine, error) {
	for attempt := 0; attempt < MaxGenerateAttempts; attempt++ {
		line := walkLine(g, rng)
		if line.Length() < MinLineLength {
			continue
		}
		g.MarkLine(line)
		return line, nil
	}
	return nil, fmt.Errorf("%w: no line of %d+ steps on %dx%d grid after %d attempts",
		ErrGenerationFailed, MinLineLength, g.Width, g.Height, MaxGenerateAttempts)
}

// walkLine performs one random walk without touching the grid's masks.
func walkLine(g *Grid, rng *rand.Rand) *RailLine {
	start, d := pickEdgeStart(g, rng)
	line := &RailLine{Segments: []RailSegment{{Start: start, Dir: d}}}
	seg := &line.Segments[0]
	p := start

	for {
		next := p.Step(d)
		if !g.Contains(next) {
			break
		}
		p = next
		seg.Length++
		if g.Mask(p.X, p.Y)&Terminus(d) != 0 {
			// track already leaves this cell roughly our way
			break
		}
		if seg.Length <= straightRun {
			continue
		}
		turn := rng.Float64()
		switch {
		case turn > turnLeftAbove && turn < turnRightAbove:
			d = d.Left()
		case turn >= turnRightAbove:
			d = d.Right()
		default:
			continue
		}
		line.Segments = append(line.Segments, RailSegment{Start: p, Dir: d})
		seg = &line.Segments[len(line.Segments)-1]
	}

	for len(line.Segments) > 1 && line.Segments[len(line.Segments)-1].Length == 0 {
		line.Segments = line.Segments[:len(line.Segments)-1]
	}
	return line
}

// pickEdgeStart chooses the edge, the inward heading and a position along
// the edge biased toward its centre.
func pickEdgeStart(g *Grid, rng *rand.Rand) (Position, Direction) {
	along := func(extent int) int {
		v := int((rng.Float64() + rng.Float64()) / 2 * float64(extent))
		if v >= extent {
			v = extent - 1
		}
		return v
	}

	switch rng.IntN(4) {
	case 0: // bottom, heading up
		d := NorthWest + Direction(rng.IntN(3))
		return Position{X: along(g.Width), Y: g.Height - 1}, d
	case 1: // top, heading down
		d := SouthEast + Direction(rng.IntN(3))
		return Position{X: along(g.Width), Y: 0}, d
	case 2: // left, heading right
		d := NorthEast + Direction(rng.IntN(3))
		return Position{X: 0, Y: along(g.Height)}, d
	default: // right, heading left
		d := (SouthWest + Direction(rng.IntN(3))) % numDirections
		return Position{X: g.Width - 1, Y: along(g.Height)}, d
	}
}
