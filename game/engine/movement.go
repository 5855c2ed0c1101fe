package engine

// CanMoveTo reports whether the player could step in direction d right now.
// A neighbouring NPC does not block on its own; the push chain behind it
// has to be clear as well.
func (gs *GameState) CanMoveTo(d Direction) bool {
	if gs.GameOver || gs.PC == nil || !d.Valid() {
		return false
	}
	target := gs.PC.Step(d)
	if !gs.Grid.Contains(target) || gs.trainAt(target, nil) != nil {
		return false
	}
	return gs.canPush(target, d)
}

// MovePC moves the player one cell in direction d, shoving any NPC in the
// way. Moves off the grid, into a train or into a blocked push chain fail
// and leave every token where it was.
func (gs *GameState) MovePC(d Direction) bool {
	if !gs.CanMoveTo(d) {
		return false
	}
	target := gs.PC.Step(d)
	if n := gs.npcAt(target, nil); n != nil {
		gs.pushNPC(n, d)
	}
	gs.PC.Position = target
	gs.PC.Dir = d
	return true
}

// canPush reports whether whatever NPC stands on p could be shoved one cell
// in direction d, following the chain of NPCs behind it.
func (gs *GameState) canPush(p Position, d Direction) bool {
	for gs.npcAt(p, nil) != nil {
		p = p.Step(d)
		if !gs.Grid.Contains(p) || gs.pcAt(p) || gs.trainAt(p, nil) != nil {
			return false
		}
	}
	return true
}

// pushNPC shoves n one cell in direction d, pushing any NPC already there
// first. A pushed NPC turns to face d and loses its accumulated movement.
// Nothing moves when the far end of the chain is blocked.
func (gs *GameState) pushNPC(n *Token, d Direction) bool {
	target := n.Step(d)
	if !gs.Grid.Contains(target) || gs.pcAt(target) || gs.trainAt(target, nil) != nil {
		return false
	}
	if next := gs.npcAt(target, n); next != nil {
		if !gs.pushNPC(next, d) {
			return false
		}
	}
	n.Position = target
	n.Dir = d
	n.Remaining = 0
	return true
}
