package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Snapshot() *GameState
	Reset() *GameState
	IsGameOver() bool
	GetScore() int
	GetSeed() int64
	GetPlayerPosition() Position

	// Player input
	Move(direction Direction) bool
	CanMove(direction Direction) bool
	GetPossibleMoves() []Direction
	ToggleSwitch() bool

	// Simulation
	Advance() AdvanceResult
	BulkAdvance(cycles int) []AdvanceResult

	// Configuration
	GetConfig() *GameConfig

	// History
	GetEventHistory() []GameEvent
	GetLastEvent() *GameEvent

	// Inspection
	DescribeCell(x, y int) (*CellInfo, error)
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
	seed   int64
	rng    *rand.Rand
}

// NewEngine creates a new game engine with the provided configuration. The
// seed fixes the rail network; 0 falls back to the config's seed and then
// to a random one.
func NewEngine(config *GameConfig, seed int64) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{config: config, seed: pickSeed(seed, config.Seed)}
	state, err := e.newState()
	if err != nil {
		return nil, err
	}
	e.state = state
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with default configuration
func NewEngineWithDefaults(seed int64) (*GameEngine, error) {
	return NewEngine(DefaultGameConfig(), seed)
}

func pickSeed(seeds ...int64) int64 {
	for _, s := range seeds {
		if s != 0 {
			return s
		}
	}
	for {
		if s := rand.Int64(); s != 0 {
			return s
		}
	}
}

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

func (e *GameEngine) newState() (*GameState, error) {
	e.rng = newRNG(e.seed)
	state, err := InitGameStateFromConfig(e.config, e.rng)
	if err != nil {
		return nil, err
	}
	state.Seed = e.seed
	return state, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Snapshot returns a copy of the current state that is safe to read
// after the caller stops serializing access to the engine
func (e *GameEngine) Snapshot() *GameState {
	return e.state.Snapshot()
}

// Reset rebuilds the game from the session seed, so the rail network comes
// back identical. The event history carries over.
func (e *GameEngine) Reset() *GameState {
	prevHistory := e.state.History
	prevTotal := e.state.TotalEvents

	state, err := e.newState()
	if err != nil {
		// The same seed and config generated successfully before.
		panic(fmt.Sprintf("engine: reset of seed %d failed: %v", e.seed, err))
	}
	e.state = state
	e.state.History = prevHistory
	e.state.TotalEvents = prevTotal
	e.addEvent(EventReset, e.state.PC.Position, e.config.Messages.Welcome)

	return e.state
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetSeed returns the seed the network was generated from
func (e *GameEngine) GetSeed() int64 {
	return e.seed
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position {
	return e.state.PC.Position
}

// Move steps the player and then runs one simulation cycle. The cycle runs
// even when the step is blocked; it returns whether the player moved.
func (e *GameEngine) Move(direction Direction) bool {
	if e.state.GameOver {
		return false
	}

	from := e.state.PC.Position
	moved := e.state.MovePC(direction)
	if moved {
		e.state.Message = fmt.Sprintf("Moved %s to %s", direction, e.state.PC.Position)
		e.addEvent(EventPCMove, e.state.PC.Position, fmt.Sprintf("%s -> %s", from, e.state.PC.Position))
	} else {
		e.state.Message = e.config.Messages.Blocked
		e.addEvent(EventPCBlocked, from, fmt.Sprintf("blocked moving %s", direction))
	}

	e.Advance()
	return moved
}

// CanMove checks if the player can move in the specified direction
func (e *GameEngine) CanMove(direction Direction) bool {
	return e.state.CanMoveTo(direction)
}

// GetPossibleMoves returns all valid directions the player can move
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, d := range Directions() {
		if e.CanMove(d) {
			possible = append(possible, d)
		}
	}
	return possible
}

// ToggleSwitch throws the switch under the player, if any, and then runs
// one simulation cycle.
func (e *GameEngine) ToggleSwitch() bool {
	if e.state.GameOver {
		return false
	}

	pos := e.state.PC.Position
	toggled := e.state.ToggleSwitchAtPC()
	if toggled {
		sw := SwitchAt(e.state.Switches, pos.X, pos.Y)
		e.state.Message = e.config.Messages.SwitchToggled
		e.addEvent(EventSwitchToggled, pos, fmt.Sprintf("switch now %s", sw.Dir))
	} else {
		e.state.Message = e.config.Messages.NoSwitch
		e.addEvent(EventNoSwitch, pos, "")
	}

	e.Advance()
	return toggled
}

// Advance runs one simulation cycle: a train is started if the network is
// below its cap, every train and NPC gains its speed, then everything moves.
func (e *GameEngine) Advance() AdvanceResult {
	if e.state.GameOver {
		return AdvanceResult{GameOver: true}
	}

	e.topUpTrains()
	e.state.TickAll()
	res := e.state.AdvanceAll(e.rng)
	e.record(res)
	return res
}

// BulkAdvance runs up to cycles cycles, stopping once the game is over
func (e *GameEngine) BulkAdvance(cycles int) []AdvanceResult {
	results := make([]AdvanceResult, 0, cycles)
	for i := 0; i < cycles; i++ {
		if e.IsGameOver() {
			break
		}
		results = append(results, e.Advance())
	}
	return results
}

func (e *GameEngine) topUpTrains() {
	lines := e.state.Lines
	if len(lines) == 0 || e.state.LiveTrains() >= e.config.MaxTrains {
		return
	}
	line := lines[e.rng.IntN(len(lines))]
	if t, ok := e.state.SpawnTrainOn(line, e.config.TrainSpeed); ok {
		e.addEvent(EventTrainSpawned, t.Position, fmt.Sprintf("train %d heading %s", t.ID, t.Dir))
	}
}

// record turns a cycle's outcome into events and the player-facing message.
func (e *GameEngine) record(res AdvanceResult) {
	msgs := e.config.Messages
	for _, p := range res.Crashes {
		e.state.Message = msgs.Crash
		e.addEvent(EventTrainCrash, p, msgs.Crash)
	}
	for _, t := range res.DestroyedTrains {
		e.addEvent(EventTrainDestroyed, t.Position, fmt.Sprintf("train %d", t.ID))
	}
	for _, n := range res.EliminatedNPCs {
		e.state.Message = withScore(msgs.NPCEliminated, e.state.Score)
		e.addEvent(EventNPCEliminated, n.Position, fmt.Sprintf("npc %d", n.ID))
	}
	for _, n := range res.SpawnedNPCs {
		e.addEvent(EventNPCRespawned, n.Position, fmt.Sprintf("npc %d heading %s", n.ID, n.Dir))
	}
	if res.GameOver {
		e.state.Message = withScore(msgs.GameOver, e.state.Score)
		e.addEvent(EventGameOver, e.state.PC.Position, e.state.Message)
	}
}

func withScore(msg string, score int) string {
	if strings.Contains(msg, "%d") {
		return fmt.Sprintf(msg, score)
	}
	return msg
}

// addEvent appends to the cumulative event history
func (e *GameEngine) addEvent(kind EventType, pos Position, message string) {
	e.state.TotalEvents++
	e.state.History = append(e.state.History, GameEvent{
		ID:        uuid.NewString(),
		Type:      kind,
		Cycle:     e.state.Cycle,
		Position:  pos,
		Message:   message,
		Timestamp: time.Now().Unix(),
		Sequence:  e.state.TotalEvents,
	})
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetEventHistory returns the complete event history
func (e *GameEngine) GetEventHistory() []GameEvent {
	return e.state.History
}

// GetLastEvent returns the most recent event, or nil if there are none
func (e *GameEngine) GetLastEvent() *GameEvent {
	if len(e.state.History) == 0 {
		return nil
	}
	return &e.state.History[len(e.state.History)-1]
}

// DescribeCell reports what is on the cell at (x, y)
func (e *GameEngine) DescribeCell(x, y int) (*CellInfo, error) {
	return e.state.DescribeCell(x, y)
}
