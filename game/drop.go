package game

import "math"

// DropKind discriminates currency drops
type DropKind int

const (
	DropGem     DropKind = 0
	DropLootBox DropKind = 1
)

// LootType is the effect a loot box resolves to
type LootType int

const (
	LootTreasure   LootType = 0
	LootWeapon     LootType = 1
	LootNuke       LootType = 2
	LootMagnet     LootType = 3
	LootOrbShield  LootType = 4
	LootOrbUpgrade LootType = 5
	LootUtility    LootType = 6

	lootTypeCount = 7
)

func (t LootType) String() string {
	switch t {
	case LootTreasure:
		return "TREASURE"
	case LootWeapon:
		return "WEAPON"
	case LootNuke:
		return "NUKE"
	case LootMagnet:
		return "MAGNET"
	case LootOrbShield:
		return "ORB_SHIELD"
	case LootOrbUpgrade:
		return "ORB_UPGRADE"
	case LootUtility:
		return "UTILITY"
	}
	return "UNKNOWN"
}

const (
	GemRadius     = 5.0
	LootBoxRadius = 11.0
)

// gem colour sets by value band
var gemColors = [3][2]string{
	{"#55ffff", "#2299cc"},
	{"#55ff55", "#22aa22"},
	{"#ffdd33", "#cc9900"},
}

// Drop is a gem or a loot box lying in the arena
type Drop struct {
	Kind       DropKind
	X, Y       float64
	VX, VY     float64
	Value      int // 0 for loot boxes
	Colors     [2]string
	Magnetized bool

	LootType LootType
	PulseT   float64
	SparkleT int
}

// NewGem creates a gem with a small outward scatter
func NewGem(x, y float64, value int, scatterAngle float64) *Drop {
	band := 0
	if value >= 8 {
		band = 2
	} else if value >= 4 {
		band = 1
	}
	return &Drop{
		Kind:   DropGem,
		X:      x,
		Y:      y,
		VX:     math.Cos(scatterAngle) * 1.5,
		VY:     math.Sin(scatterAngle) * 1.5,
		Value:  value,
		Colors: gemColors[band],
	}
}

// NewLootBox creates a loot box of the given type
func NewLootBox(x, y float64, lt LootType) *Drop {
	return &Drop{
		Kind:     DropLootBox,
		X:        x,
		Y:        y,
		LootType: lt,
		Colors:   [2]string{"#ffcc00", "#ff6600"},
	}
}

// Radius returns the pickup radius for the drop kind
func (d *Drop) Radius() float64 {
	if d.Kind == DropLootBox {
		return LootBoxRadius
	}
	return GemRadius
}

// Valid reports whether the drop is well formed enough to process
func (d *Drop) Valid() bool {
	if d == nil || math.IsNaN(d.X) || math.IsNaN(d.Y) {
		return false
	}
	switch d.Kind {
	case DropGem:
		return d.Value > 0
	case DropLootBox:
		return d.LootType >= 0 && d.LootType < lootTypeCount
	}
	return false
}

// Update applies scatter friction and magnetism toward the player.
// Gems snap straight in once in range; loot boxes accumulate force
// from a shorter range and are speed-clamped.
func (d *Drop) Update(px, py, magnetRange float64, cfg *Config) {
	dist := Distance(d.X, d.Y, px, py)
	if d.Kind == DropGem {
		if !d.Magnetized && dist < magnetRange {
			d.Magnetized = true
		}
		if d.Magnetized && dist > 0 {
			step := math.Min(cfg.GemMagnetSpeed, dist)
			d.VX = (px - d.X) / dist * step
			d.VY = (py - d.Y) / dist * step
		} else {
			d.VX *= cfg.DropFriction
			d.VY *= cfg.DropFriction
		}
	} else {
		d.PulseT += 0.08
		d.SparkleT++
		if dist < magnetRange*cfg.LootMagnetFactor && dist > 0 {
			d.Magnetized = true
			d.VX += (px - d.X) / dist * cfg.LootMagnetForce
			d.VY += (py - d.Y) / dist * cfg.LootMagnetForce
			spd := math.Sqrt(d.VX*d.VX + d.VY*d.VY)
			if spd > cfg.LootMagnetMaxSpd {
				d.VX *= cfg.LootMagnetMaxSpd / spd
				d.VY *= cfg.LootMagnetMaxSpd / spd
			}
		} else {
			d.Magnetized = false
			d.VX *= cfg.DropFriction
			d.VY *= cfg.DropFriction
		}
	}
	d.X += d.VX
	d.Y += d.VY
}

// ToState converts to snapshot state
func (d *Drop) ToState() DropState {
	return DropState{
		Kind:  uint8(d.Kind),
		X:     round1(d.X),
		Y:     round1(d.Y),
		Value: d.Value,
		Loot:  uint8(d.LootType),
		C1:    d.Colors[0],
		C2:    d.Colors[1],
		Pulse: round1(d.PulseT),
	}
}
