package engine

import (
	"fmt"
	"strings"
)

// Direction is one of the eight compass directions, indexed clockwise
// starting at north-west.
type Direction int

const (
	NorthWest Direction = iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West

	numDirections = 8
)

const (
	// Validation constants
	MinGridSize      = 12
	MaxGridSize      = 200
	MinLines         = 1
	MaxLines         = 50
	MaxTrainsLimit   = 32
	MaxTrainSpeed    = 8
	MaxNPCSpeed      = 100
	MaxSplatLifetime = 100
	MaxBulkCycles    = 100

	// MinLineLength is the shortest rail line the generator accepts.
	MinLineLength = 10
	// MaxGenerateAttempts bounds the generator's retry loop.
	MaxGenerateAttempts = 1000
	// NPCStepCost is the accumulator quantum an NPC spends per cell.
	NPCStepCost = 20

	WebSocketBufferSize = 256
)

var deltas = [numDirections]Position{
	{X: -1, Y: -1}, // up + left
	{X: 0, Y: -1},  // up
	{X: 1, Y: -1},  // up + right
	{X: 1, Y: 0},   // right
	{X: 1, Y: 1},   // down + right
	{X: 0, Y: 1},   // down
	{X: -1, Y: 1},  // down + left
	{X: -1, Y: 0},  // left
}

var directionNames = [numDirections]string{"NW", "N", "NE", "E", "SE", "S", "SW", "W"}

// Directions lists every direction in circular order.
func Directions() []Direction {
	return []Direction{NorthWest, North, NorthEast, East, SouthEast, South, SouthWest, West}
}

// Left returns the direction one step counter-clockwise.
func (d Direction) Left() Direction {
	return (d + numDirections - 1) % numDirections
}

// Right returns the direction one step clockwise.
func (d Direction) Right() Direction {
	return (d + 1) % numDirections
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return (d + numDirections/2) % numDirections
}

// Bit returns the mask bit for d.
func (d Direction) Bit() Mask {
	return Mask(1) << uint(d)
}

// Delta returns the cell offset of one step in direction d.
func (d Direction) Delta() (dx, dy int) {
	p := deltas[d.normalize()]
	return p.X, p.Y
}

// Valid reports whether d is one of the eight directions.
func (d Direction) Valid() bool {
	return d >= 0 && d < numDirections
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText encodes d by its compass name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText accepts anything ParseDirection does.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Direction) normalize() Direction {
	return ((d % numDirections) + numDirections) % numDirections
}

// ParseDirection accepts compass names ("n", "north-east", "SW", ...) and
// the screen words up, down, left and right.
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "nw", "northwest", "upleft":
		return NorthWest, nil
	case "n", "north", "up":
		return North, nil
	case "ne", "northeast", "upright":
		return NorthEast, nil
	case "e", "east", "right":
		return East, nil
	case "se", "southeast", "downright":
		return SouthEast, nil
	case "s", "south", "down":
		return South, nil
	case "sw", "southwest", "downleft":
		return SouthWest, nil
	case "w", "west", "left":
		return West, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Mask is the per-cell set of directions track leaves or enters by.
type Mask uint8

// Has reports whether track runs in direction d.
func (m Mask) Has(d Direction) bool {
	return m&d.Bit() != 0
}

// Count returns the number of directions set.
func (m Mask) Count() int {
	n := 0
	for v := m; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Directions returns the set directions in circular order.
func (m Mask) Directions() []Direction {
	var out []Direction
	for _, d := range Directions() {
		if m.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Terminus returns the bits for d-1, d and d+1. A generator heading in d
// stops on a cell whose mask intersects it.
func Terminus(d Direction) Mask {
	d = d.normalize()
	return d.Left().Bit() | d.Bit() | d.Right().Bit()
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Step returns the position one cell away in direction d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// GameConfig represents the game configuration loaded from JSON or YAML
type GameConfig struct {
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description" yaml:"description"`
	Width         int    `json:"width" yaml:"width"`
	Height        int    `json:"height" yaml:"height"`
	Lines         int    `json:"lines" yaml:"lines"`
	NPCs          int    `json:"npcs" yaml:"npcs"`
	MaxTrains     int    `json:"max_trains" yaml:"max_trains"`
	TrainSpeed    int    `json:"train_speed" yaml:"train_speed"`
	NPCSpeed      int    `json:"npc_speed" yaml:"npc_speed"`
	SplatLifetime int    `json:"splat_lifetime" yaml:"splat_lifetime"`
	// Seed fixes the network layout; 0 lets each session pick its own.
	Seed     int64          `json:"seed,omitempty" yaml:"seed,omitempty"`
	Messages ConfigMessages `json:"messages" yaml:"messages"`
}

// ConfigMessages holds the player-facing text for game events.
type ConfigMessages struct {
	Welcome       string `json:"welcome" yaml:"welcome"`
	GameOver      string `json:"game_over" yaml:"game_over"`
	Crash         string `json:"crash" yaml:"crash"`
	NPCEliminated string `json:"npc_eliminated" yaml:"npc_eliminated"`
	Blocked       string `json:"blocked" yaml:"blocked"`
	SwitchToggled string `json:"switch_toggled" yaml:"switch_toggled"`
	NoSwitch      string `json:"no_switch" yaml:"no_switch"`
}

// EventType classifies entries in a session's event history.
type EventType string

const (
	EventPCMove         EventType = "pc_move"
	EventPCBlocked      EventType = "pc_blocked"
	EventSwitchToggled  EventType = "switch_toggled"
	EventNoSwitch       EventType = "no_switch"
	EventTrainSpawned   EventType = "train_spawned"
	EventTrainDestroyed EventType = "train_destroyed"
	EventTrainCrash     EventType = "train_crash"
	EventNPCEliminated  EventType = "npc_eliminated"
	EventNPCRespawned   EventType = "npc_respawned"
	EventGameOver       EventType = "game_over"
	EventReset          EventType = "reset"
)

// GameEvent is a single entry in the event history
type GameEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Cycle     int       `json:"cycle"`
	Position  Position  `json:"position"`
	Message   string    `json:"message,omitempty"`
	Timestamp int64     `json:"timestamp"`
	Sequence  int       `json:"sequence"`
}

// CellInfo describes one grid cell and whatever occupies it.
type CellInfo struct {
	Position  Position   `json:"position"`
	Mask      int        `json:"mask"`
	Tracks    []string   `json:"tracks"`
	Switch    *Direction `json:"switch,omitempty"`
	Occupants []Token    `json:"occupants"`
}
