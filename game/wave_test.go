package game

import (
	"math"
	"testing"
)

func TestWaveLimit(t *testing.T) {
	cases := map[int]int{1: 17, 2: 20, 5: 27, 10: 40, 30: 40}
	for wave, want := range cases {
		if got := WaveLimit(wave); got != want {
			t.Errorf("wave %d: expected limit %d, got %d", wave, want, got)
		}
	}
}

func TestSpawnCeilings(t *testing.T) {
	if c := ActiveCeiling(1); c != 9 {
		t.Errorf("expected active ceiling 9 at wave 1, got %d", c)
	}
	if c := ActiveCeiling(50); c != 18 {
		t.Errorf("expected active ceiling capped at 18, got %d", c)
	}
	if c := BonusCeiling(100); c != 24 {
		t.Errorf("expected bonus ceiling capped at 24, got %d", c)
	}
	if p := SpawnChance(40); p != 0.12 {
		t.Errorf("expected spawn chance capped at 0.12, got %f", p)
	}
}

func TestRollEnemyTypeTiers(t *testing.T) {
	if got := RollEnemyType(1, 0.99); got != EnemyScout {
		t.Errorf("wave 1 should only roll scouts, got %s", got)
	}
	if got := RollEnemyType(2, 0.9); got != EnemyInterceptor {
		t.Errorf("wave 2 roll 0.9: expected interceptor, got %s", got)
	}
	if got := RollEnemyType(4, 0.9); got != EnemyCrusher {
		t.Errorf("wave 4 roll 0.9: expected crusher, got %s", got)
	}
	if got := RollEnemyType(25, 0.95); got != EnemyShredder {
		t.Errorf("wave 25 roll 0.95: expected shredder, got %s", got)
	}
	if tier := TierFor(8); tier.MinWave != 6 {
		t.Errorf("wave 8 should use the 6-10 tier, got min %d", tier.MinWave)
	}
}

func TestSpawnPositionsRespectBoundsAndDistance(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	d := g.director
	cfg := g.cfg
	for i := 0; i < 500; i++ {
		e := d.Create(g, false)
		if e.X < 0 || e.X > cfg.WorldWidth || e.Y < 0 || e.Y > cfg.WorldHeight {
			t.Fatalf("spawn out of bounds: (%.1f, %.1f)", e.X, e.Y)
		}
		dist := Distance(g.Player.X, g.Player.Y, e.X, e.Y)
		if dist < cfg.SpawnDistance-1e-9 || dist > cfg.SpawnDistance*math.Sqrt2+1e-9 {
			t.Fatalf("spawn distance %.1f outside [%.0f, %.0f]", dist, cfg.SpawnDistance, cfg.SpawnDistance*math.Sqrt2)
		}
		if !e.Spawning {
			t.Fatal("new enemies should start in the spawning state")
		}
	}

	g.Player.X, g.Player.Y = 20, 20
	for i := 0; i < 200; i++ {
		e := d.Create(g, false)
		if e.X < 0 || e.X > cfg.WorldWidth || e.Y < 0 || e.Y > cfg.WorldHeight {
			t.Fatalf("corner spawn out of bounds: (%.1f, %.1f)", e.X, e.Y)
		}
	}
}

func TestBudgetedSpawnsCount(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	d := g.director
	d.Spawned = 0
	d.Trickle(g, 3)
	if d.Spawned != 3 || len(g.Enemies) != 3 {
		t.Errorf("expected 3 budgeted spawns, got %d (%d listed)", d.Spawned, len(g.Enemies))
	}
	d.Spawned = d.Limit
	d.Trickle(g, 3)
	if d.Spawned != d.Limit {
		t.Error("trickle must not exceed the wave budget")
	}
}

// Killing the whole first wave without an upgrade starts a bonus wave
// instead of advancing.
func TestClearedWaveWithoutUpgradeTriggersBonus(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	d := g.director
	for i := 0; i < 10; i++ {
		d.Create(g, true)
	}
	g.Kills += len(g.Enemies)
	g.Enemies = nil
	d.Spawned = d.Limit

	if d.Spawn(g) {
		t.Fatal("wave must not complete without an upgrade")
	}
	if d.Wave != 1 {
		t.Errorf("expected wave 1, got %d", d.Wave)
	}
	if !d.Bonus {
		t.Fatal("expected a bonus wave")
	}
	if want := maxInt(8, int(0.6*float64(d.Limit))); d.BonusRemaining != want && d.BonusRemaining != want-1 {
		t.Errorf("expected bonus size %d, got %d", want, d.BonusRemaining)
	}
	found := false
	for _, ev := range g.DrainEvents() {
		if ev.Type == EventBonusWave {
			found = true
		}
	}
	if !found {
		t.Error("expected a bonus wave event")
	}
}

func TestWaveNeverCompletesWithEnemies(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	d := g.director
	d.Spawned = d.Limit
	d.UpgradesThisWave = 1
	placeEnemy(g, EnemyScout, 100, 100)

	for i := 0; i < 100; i++ {
		if d.Spawn(g) {
			t.Fatal("wave completed with an enemy alive")
		}
	}
	g.Enemies = nil
	if !d.Spawn(g) {
		t.Error("wave should complete once cleared with the upgrade gate met")
	}
	if !d.Spawn(g) {
		t.Error("completion should be stable under repeated calls")
	}
}

func TestFirstWaveExemptionSwitch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExemptFirstWave = true
	g := newPlayingGame(t, cfg)
	d := g.director
	d.Spawned = d.Limit
	if !d.Spawn(g) {
		t.Error("wave 1 should complete without an upgrade when exempt")
	}
}

func TestBonusCyclesForceAdvance(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	d := g.director
	d.Spawned = d.Limit

	for i := 0; i < 200000; i++ {
		done := d.Spawn(g)
		g.Kills += len(g.Enemies)
		g.Enemies = nil
		if done {
			if !d.Forced {
				t.Fatal("completion without upgrade must be a forced advance")
			}
			if d.BonusCycles != g.cfg.MaxBonusCycles {
				t.Errorf("expected %d bonus cycles, got %d", g.cfg.MaxBonusCycles, d.BonusCycles)
			}
			return
		}
	}
	t.Fatal("bonus cycles never forced an advance")
}

func TestStagnationForcesAdvance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StagnationFrames = 2
	g := newPlayingGame(t, cfg)
	d := g.director

	for i := 0; i < 100000; i++ {
		done := d.Spawn(g)
		g.Enemies = nil
		if done {
			if !d.Forced {
				t.Error("stagnation advance should be flagged as forced")
			}
			return
		}
	}
	t.Fatal("stagnation never forced an advance")
}

func TestNextWaveResetsCounters(t *testing.T) {
	d := NewWaveDirector()
	d.Spawned = 10
	d.UpgradesThisWave = 2
	d.Bonus = true
	d.BonusCycles = 3
	d.NextWave()
	if d.Wave != 2 || d.Spawned != 0 || d.UpgradesThisWave != 0 || d.Bonus || d.BonusCycles != 0 {
		t.Errorf("unexpected director after NextWave: %+v", d)
	}
	if d.Limit != WaveLimit(2) {
		t.Errorf("expected limit %d, got %d", WaveLimit(2), d.Limit)
	}
}

func TestWaveAnnouncementAdvancesAndTrickles(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	d := g.director
	d.Spawned = d.Limit
	d.UpgradesThisWave = 1

	g.Tick(Input{})
	g.Tick(Input{})
	if g.Mode() != ModeWaveAnnouncement {
		t.Fatalf("expected wave announcement, got %s", g.Mode())
	}
	if d.Wave != 2 {
		t.Errorf("expected wave 2, got %d", d.Wave)
	}
	for i := 0; i < g.cfg.AnnounceFrames+2 && g.Mode() != ModePlaying; i++ {
		g.Tick(Input{})
	}
	if g.Mode() != ModePlaying {
		t.Fatalf("expected playing after the announcement, got %s", g.Mode())
	}
	if d.Spawned < g.cfg.TrickleSpawn {
		t.Errorf("expected trickle spawns, got %d", d.Spawned)
	}
}

func TestEnemyWaveScaling(t *testing.T) {
	e := NewEnemy(1, EnemyScout, 0, 0, 4, 0)
	if e.HealthBonus != 1 || e.Health != 2 {
		t.Errorf("wave 4 scout: expected bonus 1 and health 2, got %d and %f", e.HealthBonus, e.Health)
	}
	if e.Points != 13 {
		t.Errorf("wave 4 scout: expected 13 points, got %d", e.Points)
	}
	fast := NewEnemy(2, EnemyInterceptor, 0, 0, 5, 0)
	if want := 2.3 * 1.1; math.Abs(fast.Speed-want) > 1e-9 {
		t.Errorf("interceptor speed: expected %f, got %f", want, fast.Speed)
	}
}

func TestGemValueClamped(t *testing.T) {
	if v := NewEnemy(1, EnemyScout, 0, 0, 1, 0).GemValue(); v != 1 {
		t.Errorf("wave 1 scout: expected 1 gem, got %d", v)
	}
	if v := NewEnemy(1, EnemyCrusher, 0, 0, 200, 0).GemValue(); v != 15 {
		t.Errorf("late crusher: expected cap 15, got %d", v)
	}
}
