package game

import (
	"math"
	"math/rand"
)

// Particle is a purely cosmetic spark
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Life    int
	MaxLife int
	Size    float64
	Color   string
}

// EffectKind selects how a queued effect expands into particles
type EffectKind int

const (
	EffectBurst EffectKind = iota
	EffectRing
	EffectShockwave
)

// Effect is a deferred visual cascade step. Effects only ever produce
// particles; gameplay state never depends on them.
type Effect struct {
	Delay int
	Kind  EffectKind
	X, Y  float64
	Color string
	Count int
}

// FX owns the particle pool and the deferred effect queue
type FX struct {
	Particles []*Particle
	queue     []Effect
}

const maxParticles = 1500

// Schedule enqueues an effect to fire after delay frames
func (fx *FX) Schedule(delay int, kind EffectKind, x, y float64, color string, count int) {
	fx.queue = append(fx.queue, Effect{Delay: delay, Kind: kind, X: x, Y: y, Color: color, Count: count})
}

// Pending returns the number of queued effects
func (fx *FX) Pending() int {
	return len(fx.queue)
}

// Reset drops all particles and queued effects
func (fx *FX) Reset() {
	fx.Particles = fx.Particles[:0]
	fx.queue = fx.queue[:0]
}

func (fx *FX) spawn(e Effect, rng *rand.Rand) {
	for i := 0; i < e.Count && len(fx.Particles) < maxParticles; i++ {
		var angle, speed float64
		switch e.Kind {
		case EffectRing:
			angle = 2 * math.Pi * float64(i) / float64(e.Count)
			speed = 3
		case EffectShockwave:
			angle = 2 * math.Pi * float64(i) / float64(e.Count)
			speed = 6 + rng.Float64()*2
		default:
			angle = rng.Float64() * 2 * math.Pi
			speed = 0.5 + rng.Float64()*3
		}
		life := 20 + rng.Intn(25)
		fx.Particles = append(fx.Particles, &Particle{
			X:       e.X,
			Y:       e.Y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    life,
			MaxLife: life,
			Size:    1.5 + rng.Float64()*2,
			Color:   e.Color,
		})
	}
}

// Update drains due effects and advances particles, removing dead ones
func (fx *FX) Update(rng *rand.Rand) {
	kept := fx.queue[:0]
	var due []Effect
	for _, e := range fx.queue {
		if e.Delay <= 0 {
			due = append(due, e)
			continue
		}
		e.Delay--
		kept = append(kept, e)
	}
	fx.queue = kept
	for _, e := range due {
		fx.spawn(e, rng)
	}

	for i := len(fx.Particles) - 1; i >= 0; i-- {
		p := fx.Particles[i]
		p.X += p.VX
		p.Y += p.VY
		p.VX *= 0.95
		p.VY *= 0.95
		p.Life--
		if p.Life <= 0 {
			fx.Particles[i] = fx.Particles[len(fx.Particles)-1]
			fx.Particles[len(fx.Particles)-1] = nil
			fx.Particles = fx.Particles[:len(fx.Particles)-1]
		}
	}
}

// ToState converts to snapshot state
func (p *Particle) ToState() ParticleState {
	alpha := 0.0
	if p.MaxLife > 0 {
		alpha = float64(p.Life) / float64(p.MaxLife)
	}
	return ParticleState{
		X: round1(p.X),
		Y: round1(p.Y),
		S: round1(p.Size),
		A: round1(alpha),
		C: p.Color,
	}
}
