package engine

// Switch selects one of the directions present at a junction cell.
type Switch struct {
	Position
	Dir Direction `json:"dir"`
}

// DetectSwitches scans g in raster order and places one switch on every
// cell that has two circularly adjacent direction bits. The switch starts
// on the first direction of the first such pair.
func DetectSwitches(g *Grid) []*Switch {
	var switches []*Switch
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			m := g.Mask(x, y)
			if m == 0 {
				continue
			}
			for _, d := range Directions() {
				if m.Has(d) && m.Has(d.Right()) {
					switches = append(switches, &Switch{Position: Position{X: x, Y: y}, Dir: d})
					break
				}
			}
		}
	}
	return switches
}

// SwitchAt returns the switch on (x, y), or nil.
func SwitchAt(switches []*Switch, x, y int) *Switch {
	for _, s := range switches {
		if s.X == x && s.Y == y {
			return s
		}
	}
	return nil
}

// ToggleSwitch advances the switch on (x, y) to the next direction present
// in the cell's mask, scanning clockwise. It returns false when there is no
// switch on the cell. Coordinates off the grid panic.
func ToggleSwitch(switches []*Switch, g *Grid, x, y int) bool {
	m := g.Mask(x, y)
	s := SwitchAt(switches, x, y)
	if s == nil || m == 0 {
		return false
	}
	for d := s.Dir.Right(); d != s.Dir; d = d.Right() {
		if m.Has(d) {
			s.Dir = d
			break
		}
	}
	return true
}
