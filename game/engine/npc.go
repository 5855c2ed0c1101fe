package engine

import "math/rand/v2"

// updateNPC walks n straight ahead for as many steps as its accumulator
// covers. NPCs ignore track. A step toward the PC or a train is lost; a
// step into another NPC pushes it. Walking off the grid removes n and
// spawns a replacement.
func (gs *GameState) updateNPC(n *Token, rng *rand.Rand, res *AdvanceResult) {
	for n.Alive() && n.Remaining >= NPCStepCost {
		n.Remaining -= NPCStepCost
		target := n.Step(n.Dir)
		if !gs.Grid.Contains(target) {
			n.dead = true
			res.ExitedNPCs = append(res.ExitedNPCs, *n)
			res.SpawnedNPCs = append(res.SpawnedNPCs, *gs.SpawnNPC(rng))
			return
		}
		if gs.pcAt(target) || gs.trainAt(target, nil) != nil {
			continue
		}
		if other := gs.npcAt(target, n); other != nil && !gs.pushNPC(other, n.Dir) {
			continue
		}
		n.Position = target
	}
}

// updateSplat ages s by one cycle.
func (gs *GameState) updateSplat(s *Token) {
	s.TTL--
	if s.TTL <= 0 {
		s.dead = true
	}
}
