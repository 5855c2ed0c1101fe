package engine

import "math/rand/v2"

// TokenKind tags which movement rule a Token follows.
type TokenKind string

const (
	KindTrain TokenKind = "train"
	KindNPC   TokenKind = "npc"
	KindPC    TokenKind = "pc"
	KindSplat TokenKind = "splat"
)

// Token is any piece on the board. Kind selects the rule advance applies;
// the remaining fields are shared. Remaining accumulates Speed on every
// tick and is spent by moves, which decouples a token's speed from how
// often the host calls in.
type Token struct {
	ID   int       `json:"id"`
	Kind TokenKind `json:"kind"`
	Position
	Dir       Direction `json:"dir"`
	Remaining int       `json:"remaining"`
	Speed     int       `json:"speed"`
	// TTL counts down the cycles a splat has left.
	TTL int `json:"ttl,omitempty"`

	dead bool
}

// Alive reports whether the token is still in play.
func (t *Token) Alive() bool {
	return !t.dead
}

func (t *Token) tick() {
	t.Remaining += t.Speed
}

// SpawnTrain places a train on the first cell of line, facing along it.
func SpawnTrain(line *RailLine, speed int) *Token {
	start, d := line.Start()
	return &Token{Kind: KindTrain, Position: start, Dir: d, Speed: speed}
}

// SpawnNPC places an NPC on a uniformly random cell with a random heading.
func SpawnNPC(width, height, speed int, rng *rand.Rand) *Token {
	return &Token{
		Kind:     KindNPC,
		Position: Position{X: rng.IntN(width), Y: rng.IntN(height)},
		Dir:      Direction(rng.IntN(numDirections)),
		Speed:    speed,
	}
}

// NewPC returns the player token at p.
func NewPC(p Position) *Token {
	return &Token{Kind: KindPC, Position: p, Dir: North}
}

// NewSplat returns a splat at p that lasts ttl cycles.
func NewSplat(p Position, ttl int) *Token {
	return &Token{Kind: KindSplat, Position: p, TTL: ttl}
}
