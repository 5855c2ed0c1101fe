package engine

import "testing"

func TestNPCWalks(t *testing.T) {
	tests := []struct {
		name      string
		speed     int
		ticks     int
		expected  Position
		remaining int
	}{
		{"below step cost", 10, 1, Position{X: 2, Y: 2}, 10},
		{"accumulates", 10, 2, Position{X: 3, Y: 2}, 0},
		{"one step", 20, 1, Position{X: 3, Y: 2}, 0},
		{"two steps", 45, 1, Position{X: 4, Y: 2}, 5},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newTestState(12, 12)
			npc := placeNPC(s, Position{X: 2, Y: 2}, East, test.speed)
			for i := 0; i < test.ticks; i++ {
				s.TickAll()
				s.AdvanceAll(testRNG(1))
			}
			if npc.Position != test.expected {
				t.Errorf("Expected NPC at %s, got %s", test.expected, npc.Position)
			}
			if npc.Remaining != test.remaining {
				t.Errorf("Expected remaining %d, got %d", test.remaining, npc.Remaining)
			}
		})
	}
}

func TestNPCIgnoresTrack(t *testing.T) {
	s := newTestState(12, 12)
	layLine(s, Position{X: 0, Y: 3}, East, 11)
	npc := placeNPC(s, Position{X: 4, Y: 2}, South, 40)

	s.TickAll()
	s.AdvanceAll(testRNG(1))
	if npc.Position != (Position{X: 4, Y: 4}) {
		t.Errorf("Expected NPC to cross the track to (4,4), got %s", npc.Position)
	}
}

func TestNPCHeldByPCAndTrain(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *GameState)
	}{
		{"pc", func(s *GameState) { s.PC.Position = Position{X: 3, Y: 2} }},
		{"train", func(s *GameState) { placeTrain(s, Position{X: 3, Y: 2}, North, 0) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newTestState(12, 12)
			test.setup(s)
			npc := placeNPC(s, Position{X: 2, Y: 2}, East, 20)

			s.TickAll()
			s.AdvanceAll(testRNG(1))
			if npc.Position != (Position{X: 2, Y: 2}) {
				t.Errorf("Expected NPC to stay at (2,2), got %s", npc.Position)
			}
			if npc.Remaining != 0 {
				t.Errorf("Expected the lost step to spend its cost, got remaining %d", npc.Remaining)
			}
		})
	}
}

func TestNPCPushesNPC(t *testing.T) {
	s := newTestState(12, 12)
	pusher := placeNPC(s, Position{X: 2, Y: 2}, East, 20)
	pushed := placeNPC(s, Position{X: 3, Y: 2}, South, 0)

	s.TickAll()
	s.AdvanceAll(testRNG(1))
	if pusher.Position != (Position{X: 3, Y: 2}) {
		t.Errorf("Expected pusher at (3,2), got %s", pusher.Position)
	}
	if pushed.Position != (Position{X: 4, Y: 2}) || pushed.Dir != East {
		t.Errorf("Expected pushed NPC at (4,2) facing E, got %s facing %s", pushed.Position, pushed.Dir)
	}
}

func TestNPCLeavingGridIsReplaced(t *testing.T) {
	s := newTestState(12, 12)
	npc := placeNPC(s, Position{X: 11, Y: 4}, East, 20)

	s.TickAll()
	res := s.AdvanceAll(testRNG(1))
	if npc.Alive() {
		t.Error("Expected NPC to be removed on leaving the grid")
	}
	if len(res.ExitedNPCs) != 1 || len(res.SpawnedNPCs) != 1 {
		t.Errorf("Expected 1 exit and 1 replacement, got %d and %d", len(res.ExitedNPCs), len(res.SpawnedNPCs))
	}
	if len(s.NPCs) != 1 {
		t.Fatalf("Expected population of 1, got %d", len(s.NPCs))
	}
	if s.NPCs[0] == npc {
		t.Error("Expected the replacement to be a new token")
	}
	if res.ScoreDelta != 0 {
		t.Errorf("Expected no score for walking off, got %d", res.ScoreDelta)
	}
}

func TestSpawnNPCPrefersFreeCells(t *testing.T) {
	s := newTestState(12, 12)
	for seed := uint64(1); seed <= 20; seed++ {
		n := s.SpawnNPC(testRNG(seed))
		if !s.Grid.Contains(n.Position) {
			t.Fatalf("Spawned off grid at %s", n.Position)
		}
		if s.pcAt(n.Position) {
			t.Errorf("Spawned on the PC at %s", n.Position)
		}
		if other := s.npcAt(n.Position, n); other != nil {
			t.Errorf("Spawned on NPC %d at %s", other.ID, n.Position)
		}
	}
}

func TestSplatExpires(t *testing.T) {
	s := newTestState(12, 12)
	s.Splats = append(s.Splats, s.add(NewSplat(Position{X: 5, Y: 5}, 2)))
	rng := testRNG(1)

	s.AdvanceAll(rng)
	if len(s.Splats) != 1 || s.Splats[0].TTL != 1 {
		t.Fatalf("Expected splat with TTL 1, got %v", s.Splats)
	}
	s.AdvanceAll(rng)
	if len(s.Splats) != 0 {
		t.Errorf("Expected splat removed, got %d", len(s.Splats))
	}
}
