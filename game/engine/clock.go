package engine

import "math/rand/v2"

// AdvanceResult summarises one simulation cycle. Tokens are copies taken
// at the moment they left play.
type AdvanceResult struct {
	EliminatedNPCs  []Token    `json:"eliminated_npcs"`
	ExitedNPCs      []Token    `json:"exited_npcs"`
	SpawnedNPCs     []Token    `json:"spawned_npcs"`
	DestroyedTrains []Token    `json:"destroyed_trains"`
	Crashes         []Position `json:"crashes"`
	ScoreDelta      int        `json:"score_delta"`
	GameOver        bool       `json:"game_over"`
}

// TickAll adds each live train's and NPC's speed to its accumulator.
func (gs *GameState) TickAll() {
	for _, group := range [][]*Token{gs.Trains, gs.NPCs} {
		for _, t := range group {
			if t.Alive() {
				t.tick()
			}
		}
	}
}

// AdvanceAll runs one cycle: trains, then NPCs, then splats. Only tokens
// present when the cycle starts are advanced, each at most once, and
// anything that died is dropped at the end. The cycle stops early once the
// game is over.
func (gs *GameState) AdvanceAll(rng *rand.Rand) AdvanceResult {
	var res AdvanceResult
	if gs.GameOver {
		res.GameOver = true
		return res
	}
	gs.Cycle++

	phases := [][]*Token{clone(gs.Trains), clone(gs.NPCs), clone(gs.Splats)}
	for _, phase := range phases {
		for _, t := range phase {
			if gs.GameOver {
				break
			}
			if t.Alive() {
				gs.advance(t, rng, &res)
			}
		}
	}

	gs.compact()
	res.GameOver = gs.GameOver
	return res
}

// advance applies the movement rule for t's kind. The PC only moves on
// input.
func (gs *GameState) advance(t *Token, rng *rand.Rand, res *AdvanceResult) {
	switch t.Kind {
	case KindTrain:
		for t.Remaining > 0 && !gs.GameOver {
			if !gs.MoveTrain(t, rng, res) {
				return
			}
		}
	case KindNPC:
		gs.updateNPC(t, rng, res)
	case KindSplat:
		gs.updateSplat(t)
	}
}

func clone(tokens []*Token) []*Token {
	return append([]*Token(nil), tokens...)
}
