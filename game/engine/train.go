package engine

import "math/rand/v2"

// route picks the direction t leaves its current cell by: a switch set
// one step either side of the heading, then straight on, then either
// neighbouring branch in random order. ok is false at the end of the line.
func (gs *GameState) route(t *Token, rng *rand.Rand) (d Direction, ok bool) {
	m := gs.Grid.Mask(t.X, t.Y)
	if sw := SwitchAt(gs.Switches, t.X, t.Y); sw != nil {
		if sw.Dir == t.Dir.Left() || sw.Dir == t.Dir.Right() {
			return sw.Dir, true
		}
	}
	if m.Has(t.Dir) {
		return t.Dir, true
	}
	first, second := t.Dir.Left(), t.Dir.Right()
	if rng.IntN(2) == 1 {
		first, second = second, first
	}
	switch {
	case m.Has(first):
		return first, true
	case m.Has(second):
		return second, true
	}
	return 0, false
}

// MoveTrain spends one unit of t's movement on a single step along the
// track. A train with nothing accumulated stays put and reports success.
// It returns false when the train has been destroyed, by running out of
// track, leaving the grid or crashing.
func (gs *GameState) MoveTrain(t *Token, rng *rand.Rand, res *AdvanceResult) bool {
	if !t.Alive() {
		return false
	}
	if t.Remaining <= 0 {
		return true
	}
	t.Remaining--

	d, ok := gs.route(t, rng)
	if !ok {
		gs.destroyTrain(t, res)
		return false
	}
	next := t.Step(d)
	if !gs.Grid.Contains(next) {
		gs.destroyTrain(t, res)
		return false
	}
	t.Position = next
	t.Dir = d

	gs.trainCollisions(t, rng, res)
	return t.Alive()
}

// trainCollisions resolves what t ran into on arriving at its cell. A
// crash ends the check; otherwise every NPC there is run over before the
// PC is considered.
func (gs *GameState) trainCollisions(t *Token, rng *rand.Rand, res *AdvanceResult) {
	for _, other := range gs.Trains {
		if other == t || !other.Alive() || other.Position != t.Position || other.Dir == t.Dir {
			continue
		}
		gs.destroyTrain(t, res)
		gs.destroyTrain(other, res)
		res.Crashes = append(res.Crashes, t.Position)
		return
	}

	for _, n := range gs.NPCs {
		if n.Alive() && n.Position == t.Position {
			gs.eliminateNPC(n, rng, res)
		}
	}

	if gs.pcAt(t.Position) {
		gs.GameOver = true
	}
}

func (gs *GameState) destroyTrain(t *Token, res *AdvanceResult) {
	t.dead = true
	res.DestroyedTrains = append(res.DestroyedTrains, *t)
}

// eliminateNPC scores a run-over NPC, leaves a splat and brings a
// replacement onto the board.
func (gs *GameState) eliminateNPC(n *Token, rng *rand.Rand, res *AdvanceResult) {
	n.dead = true
	gs.Score++
	res.ScoreDelta++
	res.EliminatedNPCs = append(res.EliminatedNPCs, *n)
	gs.Splats = append(gs.Splats, gs.add(NewSplat(n.Position, gs.Rules.SplatLifetime)))
	res.SpawnedNPCs = append(res.SpawnedNPCs, *gs.SpawnNPC(rng))
}
