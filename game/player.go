package game

import "math"

// Stat names a player attribute mutable through Player.Upgrade
type Stat int

const (
	StatFireRate Stat = iota
	StatMoveSpeed
	StatBulletSpeed
	StatBulletSize
	StatRange
	StatMagnetRange
	StatShieldDuration
	StatOrbCount
	StatOrbSpeed
	StatOrbDamage
	StatOrbShooting
	StatTripleShot
	StatShotgunBlast
	StatHomingMissiles
	StatExplosiveCannon
	StatVampiric
	StatGemMultiplier
)

// weaponStats are the unlockable weapons, in unlock-menu order
var weaponStats = []Stat{StatTripleShot, StatShotgunBlast, StatHomingMissiles, StatExplosiveCannon}

// Player is the single robot the run revolves around
type Player struct {
	X, Y   float64
	Radius float64
	Angle  float64

	Speed        float64
	FireRate     int // frames between volleys
	FireTimer    int
	BulletSpeed  float64
	BulletSize   float64
	BulletLength float64 // weapon range
	MagnetRange  float64
	Volley       int

	TripleShot      bool
	ShotgunBlast    bool
	HomingMissiles  bool
	ExplosiveCannon bool

	OrbCount    int
	OrbSpeed    float64
	OrbDamage   float64
	OrbShooting bool

	GemMultiplier  int
	Invulnerable   bool
	InvulnTimer    int
	ShieldDuration int
	Vampiric       bool

	cfg *Config
}

// NewPlayer creates a fresh player at the world centre
func NewPlayer(cfg *Config) *Player {
	return &Player{
		X:              cfg.WorldWidth / 2,
		Y:              cfg.WorldHeight / 2,
		Radius:         cfg.PlayerRadius,
		Speed:          cfg.PlayerSpeed,
		FireRate:       cfg.FireRate,
		BulletSpeed:    cfg.BulletSpeed,
		BulletSize:     cfg.BulletSize,
		BulletLength:   cfg.WeaponRange,
		MagnetRange:    cfg.MagnetRange,
		OrbSpeed:       cfg.OrbSpeed,
		OrbDamage:      cfg.OrbDamage,
		GemMultiplier:  1,
		ShieldDuration: cfg.ShieldDuration,
		cfg:            cfg,
	}
}

// CanUpgrade reports whether the stat is below its cap
func (p *Player) CanUpgrade(s Stat) bool {
	c := p.cfg
	switch s {
	case StatFireRate:
		return p.FireRate > c.MinFireRate
	case StatMoveSpeed:
		return p.Speed < c.PlayerMaxSpeed
	case StatBulletSpeed:
		return p.BulletSpeed < c.MaxBulletSpeed
	case StatBulletSize:
		return p.BulletSize < c.MaxBulletSize
	case StatRange:
		return p.BulletLength < c.MaxWeaponRange
	case StatMagnetRange:
		return p.MagnetRange < c.MaxMagnetRange
	case StatShieldDuration:
		return p.ShieldDuration < c.MaxShieldDuration
	case StatOrbCount:
		return p.OrbCount < c.MaxOrbs
	case StatOrbSpeed:
		return p.OrbCount > 0 && p.OrbSpeed < c.MaxOrbSpeed
	case StatOrbDamage:
		return p.OrbCount > 0 && p.OrbDamage < c.MaxOrbDamage
	case StatOrbShooting:
		return p.OrbCount > 0 && !p.OrbShooting
	case StatTripleShot:
		return !p.TripleShot
	case StatShotgunBlast:
		return !p.ShotgunBlast
	case StatHomingMissiles:
		return !p.HomingMissiles
	case StatExplosiveCannon:
		return !p.ExplosiveCannon
	case StatVampiric:
		return !p.Vampiric
	case StatGemMultiplier:
		return true
	}
	return false
}

// Upgrade applies value to the stat, clamped at its cap. Returns false
// when the stat was already capped and nothing changed.
func (p *Player) Upgrade(s Stat, value float64) bool {
	if !p.CanUpgrade(s) {
		return false
	}
	c := p.cfg
	switch s {
	case StatFireRate:
		p.FireRate = maxInt(p.FireRate-int(value), c.MinFireRate)
	case StatMoveSpeed:
		p.Speed = math.Min(p.Speed+value, c.PlayerMaxSpeed)
	case StatBulletSpeed:
		p.BulletSpeed = math.Min(p.BulletSpeed+value, c.MaxBulletSpeed)
	case StatBulletSize:
		p.BulletSize = math.Min(p.BulletSize+value, c.MaxBulletSize)
	case StatRange:
		p.BulletLength = math.Min(p.BulletLength+value, c.MaxWeaponRange)
	case StatMagnetRange:
		p.MagnetRange = math.Min(p.MagnetRange+value, c.MaxMagnetRange)
	case StatShieldDuration:
		p.ShieldDuration = minInt(p.ShieldDuration+int(value), c.MaxShieldDuration)
	case StatOrbCount:
		p.OrbCount = minInt(p.OrbCount+int(value), c.MaxOrbs)
	case StatOrbSpeed:
		p.OrbSpeed = math.Min(p.OrbSpeed+value, c.MaxOrbSpeed)
	case StatOrbDamage:
		p.OrbDamage = math.Min(p.OrbDamage+value, c.MaxOrbDamage)
	case StatOrbShooting:
		p.OrbShooting = true
	case StatTripleShot:
		p.TripleShot = true
	case StatShotgunBlast:
		p.ShotgunBlast = true
	case StatHomingMissiles:
		p.HomingMissiles = true
	case StatExplosiveCannon:
		p.ExplosiveCannon = true
	case StatVampiric:
		p.Vampiric = true
	case StatGemMultiplier:
		if int(value) > p.GemMultiplier {
			p.GemMultiplier = int(value)
		}
	}
	return true
}

// MissingWeapons returns the weapon stats not yet unlocked
func (p *Player) MissingWeapons() []Stat {
	var out []Stat
	for _, s := range weaponStats {
		if p.CanUpgrade(s) {
			out = append(out, s)
		}
	}
	return out
}

// Grant starts post-respawn invulnerability for the shield duration
func (p *Player) Grant(frames int) {
	p.Invulnerable = true
	if frames > p.InvulnTimer {
		p.InvulnTimer = frames
	}
}

// Move applies one frame of keyboard movement, clamped to the world
func (p *Player) Move(in Input) {
	dx, dy := in.Direction()
	if dx != 0 || dy != 0 {
		l := math.Sqrt(dx*dx + dy*dy)
		p.X += dx / l * p.Speed
		p.Y += dy / l * p.Speed
	}
	p.X = Clamp(p.X, p.Radius, p.cfg.WorldWidth-p.Radius)
	p.Y = Clamp(p.Y, p.Radius, p.cfg.WorldHeight-p.Radius)

	if p.InvulnTimer > 0 {
		p.InvulnTimer--
		if p.InvulnTimer == 0 {
			p.Invulnerable = false
		}
	}
	if p.FireTimer > 0 {
		p.FireTimer--
	}
}

// ToState converts to snapshot state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		X:       round1(p.X),
		Y:       round1(p.Y),
		R:       p.Radius,
		A:       round1(p.Angle),
		Invuln:  p.Invulnerable,
		Weapons: p.weaponMask(),
		Orbs:    p.OrbCount,
		GemMul:  p.GemMultiplier,
	}
}

func (p *Player) weaponMask() uint8 {
	var m uint8
	if p.TripleShot {
		m |= 1
	}
	if p.ShotgunBlast {
		m |= 2
	}
	if p.HomingMissiles {
		m |= 4
	}
	if p.ExplosiveCannon {
		m |= 8
	}
	return m
}
