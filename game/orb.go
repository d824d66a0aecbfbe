package game

import "math"

// Orb is a defender circling the player in capacity-limited rings
type Orb struct {
	Ring     int // orbit index
	Slot     int // position within the ring
	Distance float64
	Angle    float64
	X, Y     float64
	Damage   float64
	Shooting bool
	FireCD   int
}

// ReorganizeOrbs repacks every orb into rings of the given capacity.
// Ring of orb i is floor(i / capacity).
func ReorganizeOrbs(orbs []*Orb, capacity int, baseDist, spacing, damage float64) {
	if capacity < 1 {
		capacity = 1
	}
	for i, o := range orbs {
		o.Ring = i / capacity
		o.Slot = i % capacity
		o.Distance = baseDist + float64(o.Ring)*spacing
		o.Damage = damage
	}
}

// ringSize returns how many of count orbs sit in the given ring
func ringSize(count, capacity, ring int) int {
	n := count - ring*capacity
	if n > capacity {
		n = capacity
	}
	if n < 1 {
		n = 1
	}
	return n
}

// UpdateOrbs places every orb around (px, py) for the current phase.
// Odd rings counter-rotate.
func UpdateOrbs(orbs []*Orb, capacity int, px, py, phase float64) {
	for _, o := range orbs {
		dir := 1.0
		if o.Ring%2 == 1 {
			dir = -1
		}
		n := ringSize(len(orbs), capacity, o.Ring)
		o.Angle = phase*dir + 2*math.Pi*float64(o.Slot)/float64(n)
		o.X = px + math.Cos(o.Angle)*o.Distance
		o.Y = py + math.Sin(o.Angle)*o.Distance
	}
}

// ToState converts to snapshot state
func (o *Orb) ToState() OrbState {
	return OrbState{
		X:     round1(o.X),
		Y:     round1(o.Y),
		Ring:  uint8(o.Ring),
		Armed: o.Shooting,
	}
}
