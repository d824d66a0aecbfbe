package game

import "testing"

func TestLootIsTotalWhenMaxed(t *testing.T) {
	for lt := LootType(0); lt < lootTypeCount; lt++ {
		g := newPlayingGame(t, DefaultConfig())
		maxOut(g)
		g.Gems = 0

		g.ResolveLoot(lt)

		if g.Gems <= 0 {
			t.Errorf("%s: maxed player received nothing", lt)
			continue
		}
		if lt != LootTreasure && g.Gems != g.cfg.FallbackGems*g.Player.GemMultiplier {
			t.Errorf("%s: expected fallback of %d gems, got %d", lt, g.cfg.FallbackGems, g.Gems)
		}
	}
}

func TestTreasureScalesWithMultiplier(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	g.Player.Upgrade(StatGemMultiplier, 2)
	g.ResolveLoot(LootTreasure)
	if g.Gems < 30 || g.Gems > 70 || g.Gems%2 != 0 {
		t.Errorf("expected 15-35 gems doubled, got %d", g.Gems)
	}
}

func TestWeaponLootUnlocksMissingWeapon(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	before := len(g.Player.MissingWeapons())
	g.ResolveLoot(LootWeapon)
	if after := len(g.Player.MissingWeapons()); after != before-1 {
		t.Errorf("expected one weapon unlocked, missing %d -> %d", before, after)
	}
	if g.Gems != 0 {
		t.Errorf("no fallback expected, got %d gems", g.Gems)
	}
}

func TestNukeClearsArenaWithoutSplitting(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	placeEnemy(g, EnemyScout, 100, 100)
	placeEnemy(g, EnemyShredder, 200, 200)
	placeEnemy(g, EnemyCrusher, 300, 300)
	g.Enemies = append(g.Enemies, NewEnemy(g.nextID(), EnemyScout, 400, 400, 1, 30))

	g.ResolveLoot(LootNuke)

	if len(g.Enemies) != 0 {
		t.Errorf("expected arena cleared, %d left", len(g.Enemies))
	}
	if g.Kills != 4 {
		t.Errorf("expected 4 kills, got %d", g.Kills)
	}
	if want := 10 + 25 + 30 + 10; g.Score != want {
		t.Errorf("expected score %d, got %d", want, g.Score)
	}
	if want := 1 + 3 + 4 + 1; g.Gems != want {
		t.Errorf("expected %d gems, got %d", want, g.Gems)
	}
	if g.fx.Pending() == 0 {
		t.Error("expected queued shockwave effects")
	}
}

func TestNukeCountsTowardVampiric(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	g.Player.Vampiric = true
	g.Kills = 20
	g.Lives = 2
	for i := 0; i < 35; i++ {
		placeEnemy(g, EnemyScout, 100+float64(i)*10, 100)
	}

	g.ResolveLoot(LootNuke)

	if g.Kills != 55 {
		t.Fatalf("expected 55 kills, got %d", g.Kills)
	}
	// crossed 25 and 50
	if g.Lives != 4 {
		t.Errorf("expected 4 lives, got %d", g.Lives)
	}
}

func TestMagnetCollectsGemsOnly(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	g.Drops = append(g.Drops,
		NewGem(10, 10, 3, 0),
		NewLootBox(20, 20, LootTreasure),
		NewGem(2300, 2300, 4, 0),
	)

	g.ResolveLoot(LootMagnet)

	if g.Gems != 7 {
		t.Errorf("expected 7 gems, got %d", g.Gems)
	}
	if len(g.Drops) != 1 || g.Drops[0].Kind != DropLootBox {
		t.Errorf("expected only the loot box left, got %d drops", len(g.Drops))
	}
}

func TestOrbShieldCapsAndOverflows(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	g.Player.Upgrade(StatOrbCount, float64(g.cfg.MaxOrbs-1))
	g.syncOrbs()

	g.ResolveLoot(LootOrbShield)

	if g.Player.OrbCount != g.cfg.MaxOrbs || len(g.Orbs) != g.cfg.MaxOrbs {
		t.Errorf("expected orbs capped at %d, got %d (%d listed)", g.cfg.MaxOrbs, g.Player.OrbCount, len(g.Orbs))
	}
	if g.Gems != 0 && g.Gems != g.cfg.FallbackGems {
		t.Errorf("overflow should convert to the fallback, got %d gems", g.Gems)
	}
}

func TestOrbUpgradeCreatesFirstOrb(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	g.ResolveLoot(LootOrbUpgrade)
	if g.Player.OrbCount != 1 || len(g.Orbs) != 1 {
		t.Fatalf("expected a first orb, got %d", g.Player.OrbCount)
	}
	if g.Orbs[0].Damage <= g.cfg.OrbDamage {
		t.Errorf("first orb should come upgraded, damage %.1f", g.Orbs[0].Damage)
	}
}

func TestUtilityBoostsStats(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	p := g.Player
	before := *p
	g.ResolveLoot(LootUtility)
	changed := p.MagnetRange != before.MagnetRange || p.Speed != before.Speed ||
		p.FireRate != before.FireRate || p.BulletLength != before.BulletLength ||
		p.ShieldDuration != before.ShieldDuration
	if !changed {
		t.Error("utility loot changed nothing")
	}
	if g.Gems != 0 {
		t.Errorf("no fallback expected, got %d gems", g.Gems)
	}
}

func TestLootOpenedEvent(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	g.ResolveLoot(LootTreasure)
	evs := g.DrainEvents()
	if len(evs) != 1 || evs[0].Type != EventLootOpened {
		t.Fatalf("expected one loot event, got %v", evs)
	}
}

func TestLootBoxPickupResolves(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	p := g.Player
	g.Drops = append(g.Drops, NewLootBox(p.X, p.Y, LootTreasure))
	g.updateDrops()
	if len(g.Drops) != 0 {
		t.Error("touched loot box should be collected")
	}
	if g.Gems < 15 {
		t.Errorf("expected treasure gems, got %d", g.Gems)
	}
}

func TestGemPickupUsesMultiplier(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	p := g.Player
	p.Upgrade(StatGemMultiplier, 3)
	g.Drops = append(g.Drops, NewGem(p.X+1, p.Y, 4, 0))
	g.updateDrops()
	if g.Gems != 12 {
		t.Errorf("expected 12 gems, got %d", g.Gems)
	}
}

func TestMalformedDropsSkipped(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	g.Drops = append(g.Drops,
		nil,
		&Drop{Kind: DropGem, Value: 0},
		&Drop{Kind: DropLootBox, LootType: 42},
		NewGem(5, 5, 2, 0),
	)
	g.updateDrops()
	if len(g.Drops) != 1 {
		t.Errorf("expected only the valid gem to survive, got %d", len(g.Drops))
	}
	for _, d := range g.Drops {
		if d == nil {
			t.Fatal("nil entry left in the drop list")
		}
	}
}

func TestGemMagnetism(t *testing.T) {
	cfg := DefaultConfig()
	gem := NewGem(100, 100, 1, 0)
	gem.VX, gem.VY = 0, 0
	gem.Update(150, 100, 70, &cfg)
	if !gem.Magnetized || gem.X != 100+cfg.GemMagnetSpeed {
		t.Errorf("gem in range should snap toward the player, x=%.1f", gem.X)
	}

	box := NewLootBox(100, 100, LootNuke)
	box.Update(140, 100, 70, &cfg)
	if !box.Magnetized || box.VX != cfg.LootMagnetForce {
		t.Errorf("loot box should accumulate force, vx=%.2f", box.VX)
	}
	for i := 0; i < 100; i++ {
		box.Update(box.X+40, 100, 70, &cfg)
	}
	if box.VX > cfg.LootMagnetMaxSpd+1e-9 {
		t.Errorf("loot box speed should clamp at %.1f, got %.2f", cfg.LootMagnetMaxSpd, box.VX)
	}
}
