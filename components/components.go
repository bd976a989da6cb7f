// Package components defines ECS components for the crowd simulation.
package components

// Position represents an agent's world position in domain units.
type Position struct {
	X, Y float64
}

// Velocity represents an agent's velocity in domain units per second.
type Velocity struct {
	X, Y float64
}

// Walker holds per-agent crowd state.
type Walker struct {
	ID        uint32
	Active    bool    // false once the agent has reached an exit
	WalkSpeed float64 // preferred walking speed, caps the corrected velocity
	Neighbors int     // agents contributing to last tick's swarm force
}

// PathFollow tracks progress along a planned route to an exit.
type PathFollow struct {
	Waypoints []Position
	Index     int // next waypoint to head for; len(Waypoints) means arrived
}

// Target returns the current waypoint and whether one remains.
func (p *PathFollow) Target() (Position, bool) {
	if p.Index >= len(p.Waypoints) {
		return Position{}, false
	}
	return p.Waypoints[p.Index], true
}

// Advance moves to the next waypoint once the current one is within
// arrive units, and reports whether the route is finished.
func (p *PathFollow) Advance(x, y, arrive float64) bool {
	for p.Index < len(p.Waypoints) {
		w := p.Waypoints[p.Index]
		dx := w.X - x
		dy := w.Y - y
		if dx*dx+dy*dy > arrive*arrive {
			return false
		}
		p.Index++
	}
	return true
}
