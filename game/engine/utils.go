package engine

import "strings"

// Board glyphs, highest precedence first.
const (
	glyphPC     = '@'
	glyphTrain  = 'T'
	glyphNPC    = 'n'
	glyphSplat  = '*'
	glyphSwitch = 's'
	glyphEmpty  = '.'
)

// TrackGlyph returns a single-character drawing of a cell's track.
func TrackGlyph(m Mask) rune {
	switch m {
	case 0:
		return glyphEmpty
	case East.Bit() | West.Bit(), East.Bit(), West.Bit():
		return '-'
	case North.Bit() | South.Bit(), North.Bit(), South.Bit():
		return '|'
	case NorthEast.Bit() | SouthWest.Bit(), NorthEast.Bit(), SouthWest.Bit():
		return '/'
	case NorthWest.Bit() | SouthEast.Bit(), NorthWest.Bit(), SouthEast.Bit():
		return '\\'
	}
	return '+'
}

// Board renders the state as text, one row per line. A state without a
// grid renders empty.
func (gs *GameState) Board() string {
	if gs == nil || gs.Grid == nil {
		return ""
	}
	rows := make([][]rune, gs.Grid.Height)
	for y := range rows {
		rows[y] = make([]rune, gs.Grid.Width)
		for x := range rows[y] {
			rows[y][x] = TrackGlyph(gs.Grid.Mask(x, y))
		}
	}
	for _, s := range gs.Switches {
		rows[s.Y][s.X] = glyphSwitch
	}

	put := func(tokens []*Token, glyph rune) {
		for _, t := range tokens {
			if t.Alive() && gs.Grid.Contains(t.Position) {
				rows[t.Y][t.X] = glyph
			}
		}
	}
	put(gs.Splats, glyphSplat)
	put(gs.NPCs, glyphNPC)
	put(gs.Trains, glyphTrain)
	if gs.PC != nil {
		put([]*Token{gs.PC}, glyphPC)
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// CountJunctions counts cells where track meets from more than two
// directions.
func CountJunctions(g *Grid) int {
	count := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Mask(x, y).Count() > 2 {
				count++
			}
		}
	}
	return count
}

// ChebyshevDistance is the number of king moves between two positions,
// which is how far apart they are for a train or NPC.
func ChebyshevDistance(from, to Position) int {
	dx, dy := from.X-to.X, from.Y-to.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

// NearestTrain finds the closest live train to the player and its distance.
func NearestTrain(state *GameState) (*Token, int, bool) {
	var nearest *Token
	minDistance := -1
	for _, t := range state.Trains {
		if !t.Alive() {
			continue
		}
		d := ChebyshevDistance(state.PC.Position, t.Position)
		if minDistance == -1 || d < minDistance {
			nearest, minDistance = t, d
		}
	}
	return nearest, minDistance, nearest != nil
}

// AnalyzeDanger rates how close the nearest train is to the player.
func AnalyzeDanger(state *GameState) string {
	if state.GameOver {
		return "GAME OVER"
	}
	_, d, ok := NearestTrain(state)
	switch {
	case !ok:
		return "SAFE: No trains running"
	case d <= 1:
		return "DANGER: Train adjacent!"
	case d <= 3:
		return "CAUTION: Train nearby"
	}
	return "SAFE: Nearest train is far away"
}
