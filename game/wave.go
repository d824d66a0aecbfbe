package game

import "math"

// WaveTier maps an inclusive wave range to cumulative type probabilities
// over scout, interceptor, crusher, shredder. MaxWave 0 is unbounded.
type WaveTier struct {
	MinWave    int
	MaxWave    int
	Cumulative [4]float64
}

// WaveTiers is scanned in order; the first tier containing the wave wins
var WaveTiers = []WaveTier{
	{MinWave: 1, MaxWave: 1, Cumulative: [4]float64{1, 1, 1, 1}},
	{MinWave: 2, MaxWave: 2, Cumulative: [4]float64{0.80, 1, 1, 1}},
	{MinWave: 3, MaxWave: 5, Cumulative: [4]float64{0.55, 0.80, 0.95, 1}},
	{MinWave: 6, MaxWave: 10, Cumulative: [4]float64{0.40, 0.65, 0.85, 1}},
	{MinWave: 11, MaxWave: 0, Cumulative: [4]float64{0.30, 0.55, 0.80, 1}},
}

// TierFor returns the active tier for a wave
func TierFor(wave int) WaveTier {
	for _, t := range WaveTiers {
		if wave >= t.MinWave && (t.MaxWave == 0 || wave <= t.MaxWave) {
			return t
		}
	}
	return WaveTiers[0]
}

// RollEnemyType picks a type for the wave given a uniform roll in [0,1)
func RollEnemyType(wave int, roll float64) EnemyType {
	t := TierFor(wave)
	for i, c := range t.Cumulative {
		if roll < c {
			return EnemyType(i)
		}
	}
	return EnemyScout
}

// WaveLimit returns the spawn budget of a wave
func WaveLimit(wave int) int {
	return int(math.Min(15+float64(wave)*2.5, 40))
}

// ActiveCeiling returns the normal active-enemy ceiling of a wave
func ActiveCeiling(wave int) int {
	return int(math.Min(18, 8+float64(wave)*1.2))
}

// BonusCeiling returns the active-enemy ceiling during bonus waves
func BonusCeiling(wave int) int {
	return int(math.Min(24, 10+float64(wave)/2))
}

// SpawnChance returns the per-frame normal spawn probability
func SpawnChance(wave int) float64 {
	return math.Min(0.12, 0.02+float64(wave)*0.01)
}

// WaveDirector decides when and how many enemies enter, and when a wave
// is complete.
type WaveDirector struct {
	Wave             int
	Limit            int
	Spawned          int
	UpgradesThisWave int

	Bonus          bool
	BonusRemaining int
	BonusCycles    int
	Forced         bool // last completion was a forced advance

	lastSpawned int
	lastKills   int
	stagnant    int
}

// NewWaveDirector starts at wave 1
func NewWaveDirector() *WaveDirector {
	d := &WaveDirector{Wave: 1}
	d.SetWaveLimit()
	return d
}

// SetWaveLimit caps the per-wave spawn budget
func (d *WaveDirector) SetWaveLimit() {
	d.Limit = WaveLimit(d.Wave)
}

// NextWave advances the wave counter and resets per-wave bookkeeping
func (d *WaveDirector) NextWave() {
	d.Wave++
	d.SetWaveLimit()
	d.Spawned = 0
	d.UpgradesThisWave = 0
	d.Bonus = false
	d.BonusRemaining = 0
	d.BonusCycles = 0
	d.stagnant = 0
}

// Create spawns one enemy on a side of the ring around the player.
// Budgeted spawns count toward the wave limit.
func (d *WaveDirector) Create(g *Game, budgeted bool) *Enemy {
	cfg := g.cfg
	px, py := g.Player.X, g.Player.Y
	dist := cfg.SpawnDistance
	lateral := (g.rng.Float64()*2 - 1) * dist

	var x, y float64
	switch g.rng.Intn(4) {
	case 0: // north
		x, y = px+lateral, py-dist
	case 1: // east
		x, y = px+dist, py+lateral
	case 2: // south
		x, y = px+lateral, py+dist
	default: // west
		x, y = px-dist, py+lateral
	}
	x = Clamp(x, 0, cfg.WorldWidth)
	y = Clamp(y, 0, cfg.WorldHeight)

	t := RollEnemyType(d.Wave, g.rng.Float64())
	e := NewEnemy(g.nextID(), t, x, y, d.Wave, cfg.SpawnDuration)
	g.Enemies = append(g.Enemies, e)
	g.totalSpawned++
	if budgeted {
		d.Spawned++
	}
	return e
}

func (d *WaveDirector) gateMet(g *Game) bool {
	return d.UpgradesThisWave > 0 || (g.cfg.ExemptFirstWave && d.Wave == 1)
}

// Spawn runs once per playing frame. It returns true when the wave is
// complete: no enemies left, budget exhausted and the upgrade gate met,
// or a forced advance after too many bonus cycles or stagnation.
func (d *WaveDirector) Spawn(g *Game) bool {
	active := len(g.Enemies)
	d.Forced = false

	if active == 0 {
		if g.totalSpawned == d.lastSpawned && g.Kills == d.lastKills {
			d.stagnant++
		} else {
			d.stagnant = 0
		}
		if d.stagnant >= g.cfg.StagnationFrames {
			d.Forced = true
			return true
		}
	} else {
		d.stagnant = 0
	}
	d.lastSpawned = g.totalSpawned
	d.lastKills = g.Kills

	if d.Spawned >= d.Limit && !d.Bonus && active == 0 {
		if d.gateMet(g) {
			return true
		}
		if d.BonusCycles >= g.cfg.MaxBonusCycles {
			d.Forced = true
			return true
		}
		d.Bonus = true
		d.BonusRemaining = maxInt(8, int(0.6*float64(d.Limit)))
		d.BonusCycles++
		g.emit(EventBonusWave)
	}

	if d.Bonus {
		if d.gateMet(g) {
			d.BonusRemaining = 0
		}
		if d.BonusRemaining > 0 {
			if active < BonusCeiling(d.Wave) && g.rng.Float64() < math.Min(0.2, SpawnChance(d.Wave)*2) {
				d.Create(g, false)
				d.BonusRemaining--
			}
		} else if active == 0 {
			d.Bonus = false
		}
		return false
	}

	if d.Spawned < d.Limit && active < ActiveCeiling(d.Wave) && g.rng.Float64() < SpawnChance(d.Wave) {
		d.Create(g, true)
	}
	return false
}

// Trickle spawns the opening enemies of a fresh wave
func (d *WaveDirector) Trickle(g *Game, n int) {
	for i := 0; i < n && d.Spawned < d.Limit; i++ {
		d.Create(g, true)
	}
}
