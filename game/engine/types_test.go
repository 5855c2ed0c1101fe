package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDirectionOrder(t *testing.T) {
	tests := []struct {
		dir    Direction
		name   string
		dx, dy int
	}{
		{NorthWest, "NW", -1, -1},
		{North, "N", 0, -1},
		{NorthEast, "NE", 1, -1},
		{East, "E", 1, 0},
		{SouthEast, "SE", 1, 1},
		{South, "S", 0, 1},
		{SouthWest, "SW", -1, 1},
		{West, "W", -1, 0},
	}

	for i, test := range tests {
		if int(test.dir) != i {
			t.Errorf("Expected %s to be index %d, got %d", test.name, i, int(test.dir))
		}
		if test.dir.String() != test.name {
			t.Errorf("Expected name %s, got %s", test.name, test.dir.String())
		}
		dx, dy := test.dir.Delta()
		if dx != test.dx || dy != test.dy {
			t.Errorf("%s: expected delta (%d,%d), got (%d,%d)", test.name, test.dx, test.dy, dx, dy)
		}
	}
}

func TestDirectionRotation(t *testing.T) {
	for _, d := range Directions() {
		if d.Left().Right() != d {
			t.Errorf("%s: Left then Right should return to start, got %s", d, d.Left().Right())
		}
		if d.Opposite().Opposite() != d {
			t.Errorf("%s: Opposite twice should return to start", d)
		}
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx != -ox || dy != -oy {
			t.Errorf("%s: opposite delta should negate, got (%d,%d) and (%d,%d)", d, dx, dy, ox, oy)
		}
	}

	if NorthWest.Left() != West {
		t.Errorf("Expected NW.Left() = W, got %s", NorthWest.Left())
	}
	if West.Right() != NorthWest {
		t.Errorf("Expected W.Right() = NW, got %s", West.Right())
	}
}

func TestTerminusValues(t *testing.T) {
	expected := []Mask{131, 7, 14, 28, 56, 112, 224, 193}
	for d, want := range expected {
		if got := Terminus(Direction(d)); got != want {
			t.Errorf("Terminus(%s): expected %d, got %d", Direction(d), want, got)
		}
	}
}

func TestMaskHelpers(t *testing.T) {
	m := North.Bit() | SouthEast.Bit() | South.Bit()
	if m.Count() != 3 {
		t.Errorf("Expected 3 directions, got %d", m.Count())
	}
	if !m.Has(SouthEast) || m.Has(East) {
		t.Errorf("Unexpected membership for mask %08b", m)
	}
	dirs := m.Directions()
	if len(dirs) != 3 || dirs[0] != North || dirs[1] != SouthEast || dirs[2] != South {
		t.Errorf("Expected [N SE S], got %v", dirs)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
	}{
		{"up", North},
		{"down", South},
		{"left", West},
		{"right", East},
		{"N", North},
		{"ne", NorthEast},
		{"south-west", SouthWest},
		{" NorthWest ", NorthWest},
		{"se", SouthEast},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := ParseDirection(test.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != test.expected {
				t.Errorf("Expected %s, got %s", test.expected, got)
			}
		})
	}

	if _, err := ParseDirection("sideways"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}
}

func TestDirectionJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Dir Direction `json:"dir"`
	}{SouthEast})
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(data) != `{"dir":"SE"}` {
		t.Errorf("Expected compass name in JSON, got %s", data)
	}

	var out struct {
		Dir Direction `json:"dir"`
	}
	if err := json.Unmarshal([]byte(`{"dir":"left"}`), &out); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if out.Dir != West {
		t.Errorf("Expected W, got %s", out.Dir)
	}
}

func TestValidationConstants(t *testing.T) {
	tests := []struct {
		name     string
		actual   int
		expected int
	}{
		{"MinGridSize", MinGridSize, 12},
		{"MaxGridSize", MaxGridSize, 200},
		{"MinLineLength", MinLineLength, 10},
		{"MaxGenerateAttempts", MaxGenerateAttempts, 1000},
		{"NPCStepCost", NPCStepCost, 20},
		{"MaxBulkCycles", MaxBulkCycles, 100},
		{"WebSocketBufferSize", WebSocketBufferSize, 256},
	}

	for _, test := range tests {
		if test.actual != test.expected {
			t.Errorf("%s: expected %d, got %d", test.name, test.expected, test.actual)
		}
	}
}
