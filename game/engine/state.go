package engine

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// npcSpawnTries bounds the search for a free cell for a new NPC.
const npcSpawnTries = 32

// Rules are the per-game parameters the simulation needs mid-cycle.
type Rules struct {
	NPCSpeed      int `json:"npc_speed"`
	SplatLifetime int `json:"splat_lifetime"`
}

// GameState is the complete state of one game. Every operation that
// advances the simulation or handles input takes it by pointer.
type GameState struct {
	Grid       *Grid       `json:"grid"`
	Lines      []*RailLine `json:"lines"`
	Switches   []*Switch   `json:"switches"`
	Trains     []*Token    `json:"trains"`
	NPCs       []*Token    `json:"npcs"`
	Splats     []*Token    `json:"splats"`
	PC         *Token      `json:"pc"`
	Score      int         `json:"score"`
	GameOver   bool        `json:"game_over"`
	Cycle      int         `json:"cycle"`
	Seed       int64       `json:"seed"`
	Message    string      `json:"message"`
	ConfigName string      `json:"config_name"`
	Rules      Rules       `json:"rules"`

	// History is served separately from snapshots.
	History     []GameEvent `json:"-"`
	TotalEvents int         `json:"total_events"`

	nextID int
}

// NewGameState returns an empty state on a fresh grid with the PC at the
// centre.
func NewGameState(width, height int, rules Rules) *GameState {
	s := &GameState{
		Grid:     NewGrid(width, height),
		Lines:    []*RailLine{},
		Switches: []*Switch{},
		Trains:   []*Token{},
		NPCs:     []*Token{},
		Splats:   []*Token{},
		Rules:    rules,
		History:  []GameEvent{},
	}
	s.PC = s.add(NewPC(Position{X: width / 2, Y: height / 2}))
	return s
}

// BuildNetwork generates n lines into the grid and places the switches.
func (s *GameState) BuildNetwork(n int, rng *rand.Rand) error {
	for i := 0; i < n; i++ {
		line, err := GenerateLine(s.Grid, rng)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		s.Lines = append(s.Lines, line)
	}
	s.Switches = DetectSwitches(s.Grid)
	return nil
}

// AddTrain puts t on the board.
func (s *GameState) AddTrain(t *Token) *Token {
	s.Trains = append(s.Trains, s.add(t))
	return t
}

// AddNPC puts n on the board.
func (s *GameState) AddNPC(n *Token) *Token {
	s.NPCs = append(s.NPCs, s.add(n))
	return n
}

// SpawnNPC adds an NPC on a random free cell. After npcSpawnTries busy
// cells it settles for the last one drawn.
func (s *GameState) SpawnNPC(rng *rand.Rand) *Token {
	var n *Token
	for i := 0; i < npcSpawnTries; i++ {
		n = SpawnNPC(s.Grid.Width, s.Grid.Height, s.Rules.NPCSpeed, rng)
		if s.free(n.Position) {
			break
		}
	}
	return s.AddNPC(n)
}

// LiveTrains counts trains still in play.
func (s *GameState) LiveTrains() int {
	n := 0
	for _, t := range s.Trains {
		if t.Alive() {
			n++
		}
	}
	return n
}

// SpawnTrainOn starts a train on line unless its first cell is held by
// the PC or another train.
func (s *GameState) SpawnTrainOn(line *RailLine, speed int) (*Token, bool) {
	start, _ := line.Start()
	if s.pcAt(start) || s.trainAt(start, nil) != nil {
		return nil, false
	}
	return s.AddTrain(SpawnTrain(line, speed)), true
}

// ToggleSwitchAtPC toggles the switch under the player.
func (s *GameState) ToggleSwitchAtPC() bool {
	if s.GameOver || s.PC == nil {
		return false
	}
	return ToggleSwitch(s.Switches, s.Grid, s.PC.X, s.PC.Y)
}

// DescribeCell reports the track, switch and occupants of (x, y).
func (s *GameState) DescribeCell(x, y int) (*CellInfo, error) {
	if !s.Grid.InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrCellOutOfRange, x, y, s.Grid.Width, s.Grid.Height)
	}
	m := s.Grid.Mask(x, y)
	info := &CellInfo{
		Position:  Position{X: x, Y: y},
		Mask:      int(m),
		Tracks:    []string{},
		Occupants: []Token{},
	}
	for _, d := range m.Directions() {
		info.Tracks = append(info.Tracks, d.String())
	}
	if sw := SwitchAt(s.Switches, x, y); sw != nil {
		d := sw.Dir
		info.Switch = &d
	}
	p := Position{X: x, Y: y}
	for _, group := range [][]*Token{{s.PC}, s.Trains, s.NPCs, s.Splats} {
		for _, t := range group {
			if t != nil && t.Alive() && t.Position == p {
				info.Occupants = append(info.Occupants, *t)
			}
		}
	}
	return info, nil
}

func (s *GameState) add(t *Token) *Token {
	s.nextID++
	t.ID = s.nextID
	return t
}

func (s *GameState) free(p Position) bool {
	return !s.pcAt(p) && s.trainAt(p, nil) == nil && s.npcAt(p, nil) == nil
}

func (s *GameState) pcAt(p Position) bool {
	return s.PC != nil && s.PC.Position == p
}

// trainAt returns a live train on p other than except.
func (s *GameState) trainAt(p Position, except *Token) *Token {
	for _, t := range s.Trains {
		if t != except && t.Alive() && t.Position == p {
			return t
		}
	}
	return nil
}

// npcAt returns a live NPC on p other than except.
func (s *GameState) npcAt(p Position, except *Token) *Token {
	for _, n := range s.NPCs {
		if n != except && n.Alive() && n.Position == p {
			return n
		}
	}
	return nil
}

// compact drops tokens that died during the cycle.
func (s *GameState) compact() {
	dead := func(t *Token) bool { return !t.Alive() }
	s.Trains = slices.DeleteFunc(s.Trains, dead)
	s.NPCs = slices.DeleteFunc(s.NPCs, dead)
	s.Splats = slices.DeleteFunc(s.Splats, dead)
}

// Snapshot returns a copy of s that later cycles and input do not touch.
// The grid and lines never change after generation and are shared.
func (s *GameState) Snapshot() *GameState {
	cp := *s
	cp.Switches = make([]*Switch, len(s.Switches))
	for i, sw := range s.Switches {
		c := *sw
		cp.Switches[i] = &c
	}
	cp.Trains = cloneTokens(s.Trains)
	cp.NPCs = cloneTokens(s.NPCs)
	cp.Splats = cloneTokens(s.Splats)
	if s.PC != nil {
		pc := *s.PC
		cp.PC = &pc
	}
	cp.History = slices.Clone(s.History)
	return &cp
}

func cloneTokens(tokens []*Token) []*Token {
	out := make([]*Token, len(tokens))
	for i, t := range tokens {
		c := *t
		out[i] = &c
	}
	return out
}
