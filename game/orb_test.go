package game

import (
	"math"
	"testing"
)

func TestReorganizeRingPacking(t *testing.T) {
	const capacity = 6
	for count := 1; count <= 20; count++ {
		orbs := make([]*Orb, count)
		for i := range orbs {
			orbs[i] = &Orb{}
		}
		ReorganizeOrbs(orbs, capacity, 45, 25, 1)
		for i, o := range orbs {
			if o.Ring != i/capacity {
				t.Fatalf("count %d: orb %d expected ring %d, got %d", count, i, i/capacity, o.Ring)
			}
		}
		if last := orbs[count-1]; last.Ring != (count-1)/capacity {
			t.Errorf("count %d: last orb expected ring %d, got %d", count, (count-1)/capacity, last.Ring)
		}
	}
}

func TestOrbRingsSpreadAndCounterRotate(t *testing.T) {
	orbs := make([]*Orb, 8)
	for i := range orbs {
		orbs[i] = &Orb{}
	}
	ReorganizeOrbs(orbs, 6, 45, 25, 1)
	UpdateOrbs(orbs, 6, 0, 0, 0.3)

	if d := math.Hypot(orbs[0].X, orbs[0].Y); math.Abs(d-45) > 1e-9 {
		t.Errorf("inner ring distance: expected 45, got %.2f", d)
	}
	if d := math.Hypot(orbs[7].X, orbs[7].Y); math.Abs(d-70) > 1e-9 {
		t.Errorf("outer ring distance: expected 70, got %.2f", d)
	}
	if math.Abs(orbs[0].Angle-0.3) > 1e-9 {
		t.Errorf("inner ring should rotate forward, angle %.2f", orbs[0].Angle)
	}
	if math.Abs(orbs[6].Angle+0.3) > 1e-9 {
		t.Errorf("outer ring should counter-rotate, angle %.2f", orbs[6].Angle)
	}
	// two orbs in the outer ring sit opposite each other
	if diff := math.Abs(orbs[7].Angle - orbs[6].Angle); math.Abs(diff-math.Pi) > 1e-9 {
		t.Errorf("expected outer orbs pi apart, got %.2f", diff)
	}
}

func TestArmedOrbFires(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	p := g.Player
	p.Upgrade(StatOrbCount, 1)
	p.Upgrade(StatOrbShooting, 1)
	g.syncOrbs()
	placeEnemy(g, EnemyCrusher, p.X, p.Y-200)

	g.updateOrbs()

	if len(g.Bullets) != 1 || g.Bullets[0].Type != BulletOrb {
		t.Fatalf("expected one orb bullet, got %d", len(g.Bullets))
	}
	if g.Orbs[0].FireCD != g.cfg.OrbFireCooldown {
		t.Errorf("expected cooldown armed, got %d", g.Orbs[0].FireCD)
	}
	g.updateOrbs()
	if len(g.Bullets) != 1 {
		t.Error("orb should wait for its cooldown")
	}
}

func TestOrbSyncKeepsCooldown(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	p := g.Player
	p.Upgrade(StatOrbCount, 1)
	p.Upgrade(StatOrbShooting, 1)
	g.syncOrbs()
	g.Orbs[0].FireCD = 10

	g.syncOrbs()
	g.syncOrbs()
	if g.Orbs[0].FireCD != 10 {
		t.Errorf("repacking should not tick the cooldown, got %d", g.Orbs[0].FireCD)
	}
	g.updateOrbs()
	if g.Orbs[0].FireCD != 9 {
		t.Errorf("expected one frame off per update, got %d", g.Orbs[0].FireCD)
	}
}
