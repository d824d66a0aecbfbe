package game

import "math"

// EnemyType identifies an enemy archetype
type EnemyType int

const (
	EnemyScout       EnemyType = 0 // basic
	EnemyInterceptor EnemyType = 1 // fast
	EnemyCrusher     EnemyType = 2 // tank
	EnemyShredder    EnemyType = 3 // splitter
)

func (t EnemyType) String() string {
	switch t {
	case EnemyInterceptor:
		return "interceptor"
	case EnemyCrusher:
		return "crusher"
	case EnemyShredder:
		return "shredder"
	default:
		return "scout"
	}
}

// Elite types roll the elevated loot box chance
func (t EnemyType) Elite() bool {
	return t == EnemyCrusher || t == EnemyShredder
}

// EnemyDef holds the base stats for an archetype
type EnemyDef struct {
	Radius  float64
	Speed   float64
	Health  float64
	Points  int
	GemBase float64
	Color   string
}

var EnemyDefs = [4]EnemyDef{
	{Radius: 12, Speed: 1.3, Health: 1, Points: 10, GemBase: 1, Color: "#ff5555"},
	{Radius: 9, Speed: 2.3, Health: 1, Points: 15, GemBase: 2, Color: "#ffaa33"},
	{Radius: 20, Speed: 0.8, Health: 4, Points: 30, GemBase: 4, Color: "#aa55ff"},
	{Radius: 15, Speed: 1.1, Health: 2, Points: 25, GemBase: 3, Color: "#33ddaa"},
}

// GetEnemyDef returns the definition for an enemy type
func GetEnemyDef(t EnemyType) EnemyDef {
	if t < 0 || int(t) >= len(EnemyDefs) {
		return EnemyDefs[EnemyScout]
	}
	return EnemyDefs[t]
}

// Enemy is a hostile robot homing in on the player
type Enemy struct {
	ID          uint32
	Type        EnemyType
	X, Y        float64
	Radius      float64
	Speed       float64
	Health      float64
	MaxHealth   float64
	HealthBonus int
	Points      int
	Wave        int
	Child       bool // split offspring; never splits again

	Spawning   bool
	SpawnTimer int
	Scale      float64

	Rotation float64
	WobblePh float64
	FlashT   int
	orbHitCD map[int]int
}

// speedMultiplier scales base speed by wave; fast enemies scale slower
func speedMultiplier(t EnemyType, wave int) float64 {
	if t == EnemyInterceptor {
		return 1 + 0.025*float64(wave-1)
	}
	return 1 + 0.04*float64(wave-1)
}

// NewEnemy builds an enemy of the given type with wave difficulty applied
func NewEnemy(id uint32, t EnemyType, x, y float64, wave, spawnFrames int) *Enemy {
	def := GetEnemyDef(t)
	if wave < 1 {
		wave = 1
	}
	bonus := (wave - 1) / 3
	health := def.Health + float64(bonus)
	e := &Enemy{
		ID:          id,
		Type:        t,
		X:           x,
		Y:           y,
		Radius:      def.Radius,
		Speed:       def.Speed * speedMultiplier(t, wave),
		Health:      health,
		MaxHealth:   health,
		HealthBonus: bonus,
		Points:      int(float64(def.Points) * (1 + 0.1*float64(wave-1))),
		Wave:        wave,
	}
	if spawnFrames > 0 {
		e.Spawning = true
		e.SpawnTimer = spawnFrames
	} else {
		e.Scale = 1
	}
	return e
}

// Active reports whether the enemy can move, collide and take damage
func (e *Enemy) Active() bool {
	return !e.Spawning
}

// Update advances the spawn animation or moves toward (tx, ty)
func (e *Enemy) Update(tx, ty, spawnFrames float64, worldW, worldH float64) {
	if e.FlashT > 0 {
		e.FlashT--
	}
	for k, cd := range e.orbHitCD {
		if cd <= 1 {
			delete(e.orbHitCD, k)
		} else {
			e.orbHitCD[k] = cd - 1
		}
	}
	if e.Spawning {
		e.SpawnTimer--
		if spawnFrames > 0 {
			e.Scale = Clamp(1-float64(e.SpawnTimer)/spawnFrames, 0, 1)
		}
		if e.SpawnTimer <= 0 {
			e.Spawning = false
			e.Scale = 1
		}
		return
	}

	angle := math.Atan2(ty-e.Y, tx-e.X)
	e.Rotation = angle
	e.WobblePh += 0.1 + e.Speed*0.02
	e.X = Clamp(e.X+math.Cos(angle)*e.Speed, 0, worldW)
	e.Y = Clamp(e.Y+math.Sin(angle)*e.Speed, 0, worldH)
}

// TakeDamage reduces health and returns true if this hit killed the enemy
func (e *Enemy) TakeDamage(dmg float64) bool {
	if e.Spawning || e.Health <= 0 {
		return false
	}
	e.Health -= dmg
	e.FlashT = 6
	return e.Health <= 0
}

// orbReady reports whether orb idx may hit this enemy, arming its cooldown
func (e *Enemy) orbReady(idx, cooldown int) bool {
	if e.orbHitCD == nil {
		e.orbHitCD = make(map[int]int)
	}
	if e.orbHitCD[idx] > 0 {
		return false
	}
	e.orbHitCD[idx] = cooldown
	return true
}

// GemValue returns the gem reward for killing this enemy, clamped to [1,15]
func (e *Enemy) GemValue() int {
	def := GetEnemyDef(e.Type)
	flag := 0.0
	if e.HealthBonus > 0 {
		flag = 1
	}
	v := int(math.Floor((def.GemBase + flag*0.5) * (1 + 0.15*float64(e.Wave-1))))
	if v < 1 {
		v = 1
	}
	if v > 15 {
		v = 15
	}
	return v
}

// ToState converts to snapshot state
func (e *Enemy) ToState() EnemyState {
	return EnemyState{
		ID:     e.ID,
		Type:   uint8(e.Type),
		X:      round1(e.X),
		Y:      round1(e.Y),
		R:      round1(e.Radius),
		Rot:    round1(e.Rotation),
		HP:     round1(e.Health),
		MaxHP:  round1(e.MaxHealth),
		Scale:  round1(e.Scale),
		Flash:  e.FlashT > 0,
		Wobble: round1(e.WobblePh),
	}
}
