package game

import "math"

// BulletType distinguishes projectile behaviour
type BulletType int

const (
	BulletBasic     BulletType = 0
	BulletTriple    BulletType = 1
	BulletPellet    BulletType = 2
	BulletHoming    BulletType = 3
	BulletExplosive BulletType = 4
	BulletOrb       BulletType = 5
)

// Bullet is a player or orb projectile
type Bullet struct {
	X, Y     float64
	VX, VY   float64
	Radius   float64
	Damage   float64
	Type     BulletType
	Length   float64 // visual trail length
	MaxDist  float64 // 0 = unlimited
	Traveled float64

	// TargetID is a weak reference to a homing target; HasTarget false
	// means the bullet must re-acquire.
	TargetID  uint32
	HasTarget bool
	TurnRate  float64
}

// NewBullet creates a bullet heading along angle
func NewBullet(t BulletType, x, y, angle, speed, radius, damage float64) *Bullet {
	return &Bullet{
		X:      x,
		Y:      y,
		VX:     math.Cos(angle) * speed,
		VY:     math.Sin(angle) * speed,
		Radius: radius,
		Damage: damage,
		Type:   t,
		Length: radius * 2.5,
	}
}

// Speed returns the bullet's scalar speed
func (b *Bullet) Speed() float64 {
	return math.Sqrt(b.VX*b.VX + b.VY*b.VY)
}

// steer re-acquires a stale homing target and turns toward it
func (b *Bullet) steer(enemies []*Enemy) {
	var target *Enemy
	if b.HasTarget {
		for _, e := range enemies {
			if e.ID == b.TargetID && e.Active() && e.Health > 0 {
				target = e
				break
			}
		}
	}
	if target == nil {
		b.HasTarget = false
		best := math.MaxFloat64
		for _, e := range enemies {
			if !e.Active() || e.Health <= 0 {
				continue
			}
			d2 := DistanceSq(b.X, b.Y, e.X, e.Y)
			if d2 < best {
				best = d2
				target = e
			}
		}
		if target == nil {
			return
		}
		b.TargetID = target.ID
		b.HasTarget = true
	}

	speed := b.Speed()
	heading := math.Atan2(b.VY, b.VX)
	desired := math.Atan2(target.Y-b.Y, target.X-b.X)
	heading = TurnToward(heading, desired, b.TurnRate)
	b.VX = math.Cos(heading) * speed
	b.VY = math.Sin(heading) * speed
}

// Update moves the bullet one frame. Returns false when it should be
// removed (left the world or exceeded its travel distance).
func (b *Bullet) Update(enemies []*Enemy, worldW, worldH float64) bool {
	if b.Type == BulletHoming {
		b.steer(enemies)
	}
	b.X += b.VX
	b.Y += b.VY
	b.Traveled += b.Speed()

	if b.X < 0 || b.X > worldW || b.Y < 0 || b.Y > worldH {
		return false
	}
	if b.MaxDist > 0 && b.Traveled > b.MaxDist {
		return false
	}
	return true
}

// ToState converts to snapshot state
func (b *Bullet) ToState() BulletState {
	return BulletState{
		Type: uint8(b.Type),
		X:    round1(b.X),
		Y:    round1(b.Y),
		A:    round1(math.Atan2(b.VY, b.VX)),
		R:    round1(b.Radius),
		L:    round1(b.Length),
	}
}
