package game

import (
	"errors"
	"testing"
)

func defByID(t *testing.T, id string) upgradeDef {
	t.Helper()
	for _, d := range upgradeDefs {
		if d.ID == id {
			return d
		}
	}
	t.Fatalf("no upgrade %q", id)
	return upgradeDef{}
}

// openUpgrade puts the game on the upgrade screen with the given choices
func openUpgrade(g *Game, choices ...upgradeDef) {
	g.machine.mode = ModeUpgrade
	g.upgradeChoices = choices
}

func TestUpgradeCostGrowsGeometrically(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	g.Gems = 100000
	want := []int{10, 15, 22, 33, 49, 73, 109}
	for i, cost := range want {
		if g.GemsForUpgrade != cost {
			t.Fatalf("after %d upgrades: expected cost %d, got %d", i, cost, g.GemsForUpgrade)
		}
		gems := g.Gems
		openUpgrade(g, defByID(t, "move_speed"))
		if err := g.SelectUpgrade(0); err != nil {
			t.Fatalf("select: %v", err)
		}
		if g.Gems != gems-cost {
			t.Fatalf("expected exactly %d gems deducted, got %d", cost, gems-g.Gems)
		}
		g.machine.Apply()
	}
	if g.Upgrades != len(want) || g.director.UpgradesThisWave != len(want) {
		t.Errorf("expected %d upgrades counted, got %d / %d", len(want), g.Upgrades, g.director.UpgradesThisWave)
	}
}

func TestGemsNeverNegative(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	g.Gems = 3
	openUpgrade(g, defByID(t, "bullet_size"))
	if err := g.SelectUpgrade(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if g.Gems != 0 {
		t.Errorf("expected gems clamped to 0, got %d", g.Gems)
	}
}

func TestFireRateUpgradeScenario(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	p := g.Player
	if p.FireRate != 18 || p.Speed != 4 {
		t.Fatalf("unexpected base stats: fireRate=%d speed=%.1f", p.FireRate, p.Speed)
	}
	g.Gems = 1000
	for i := 1; i <= 3; i++ {
		openUpgrade(g, defByID(t, "fire_rate"))
		if err := g.SelectUpgrade(0); err != nil {
			t.Fatalf("select: %v", err)
		}
		g.machine.Apply()
		if p.FireRate != 18-i {
			t.Errorf("pick %d: expected fire rate %d, got %d", i, 18-i, p.FireRate)
		}
	}

	p.FireRate = 9
	for i := 0; i < 3; i++ {
		p.Upgrade(StatFireRate, 1)
	}
	if p.FireRate != g.cfg.MinFireRate {
		t.Errorf("expected fire rate floored at %d, got %d", g.cfg.MinFireRate, p.FireRate)
	}
	if p.CanUpgrade(StatFireRate) {
		t.Error("fire rate at minimum should not be eligible")
	}
}

func TestRollPrefersWeapons(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		cfg := DefaultConfig()
		cfg.Seed = seed
		g := newPlayingGame(t, cfg)
		choices := g.RollUpgradeOptions()
		if len(choices) != 3 {
			t.Fatalf("expected 3 choices, got %d", len(choices))
		}
		weapons := 0
		for _, c := range choices {
			if c.Priority == PriorityWeapon {
				weapons++
			}
		}
		if weapons != 2 {
			t.Errorf("seed %d: expected 2 weapon slots, got %d", seed, weapons)
		}
		if choices[2].Priority == PriorityWeapon {
			t.Errorf("seed %d: third slot must come from the lower tiers", seed)
		}
		if choices[0].ID == choices[1].ID {
			t.Errorf("seed %d: duplicate weapon %s", seed, choices[0].ID)
		}
	}
}

func TestIneligibleUpgradesExcluded(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	p := g.Player
	p.Upgrade(StatTripleShot, 1)
	p.Upgrade(StatShotgunBlast, 1)
	p.Upgrade(StatHomingMissiles, 1)
	for i := 0; i < 50; i++ {
		for _, c := range g.RollUpgradeOptions() {
			switch c.ID {
			case "triple_shot", "shotgun_blast", "homing_missiles":
				t.Fatalf("owned weapon %s offered", c.ID)
			case "orb_speed", "orb_damage", "orb_shooting":
				t.Fatalf("orb enhancement %s offered without orbs", c.ID)
			}
		}
	}
}

func TestFillerPadsShortPool(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	maxOut(g)
	g.Lives = g.cfg.MaxLives - 1

	choices := g.RollUpgradeOptions()
	if len(choices) != 3 {
		t.Fatalf("expected 3 choices, got %d", len(choices))
	}
	if choices[0].ID != "extra_life" {
		t.Errorf("expected the only eligible upgrade first, got %s", choices[0].ID)
	}
	for _, c := range choices[1:] {
		if c.ID != "gem_bonus" {
			t.Errorf("expected gem bonus filler, got %s", c.ID)
		}
	}
}

func TestConsolationWhenNothingEligible(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	maxOut(g)

	choices := g.RollUpgradeOptions()
	ids := []string{"gem_bonus_small", "gem_windfall", "heal_full"}
	if len(choices) != len(ids) {
		t.Fatalf("expected %d consolation choices, got %d", len(ids), len(choices))
	}
	for i, c := range choices {
		if c.ID != ids[i] {
			t.Errorf("slot %d: expected %s, got %s", i, ids[i], c.ID)
		}
	}

	g.Gems = g.GemsForUpgrade
	g.Lives = 1
	openUpgrade(g, choices...)
	if err := g.SelectUpgrade(2); err != nil {
		t.Fatalf("select: %v", err)
	}
	if g.Lives != g.cfg.StartLives || g.Gems != 5 {
		t.Errorf("heal-to-full: expected %d lives and 5 gems, got %d and %d", g.cfg.StartLives, g.Lives, g.Gems)
	}
}

func TestSelectUpgradeErrors(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	if err := g.SelectUpgrade(0); !errors.Is(err, ErrNotInMode) {
		t.Errorf("expected ErrNotInMode, got %v", err)
	}
	openUpgrade(g, defByID(t, "fire_rate"))
	if err := g.SelectUpgrade(5); !errors.Is(err, ErrNoSuchOption) {
		t.Errorf("expected ErrNoSuchOption, got %v", err)
	}
	if err := g.SelectUpgrade(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := g.SelectUpgrade(0); !errors.Is(err, ErrTransitionPending) {
		t.Errorf("second pick before the next tick: expected ErrTransitionPending, got %v", err)
	}
}

func TestOrbUpgradeRepacksRings(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	g.Gems = 1000
	for i := 0; i < 8; i++ {
		openUpgrade(g, defByID(t, "orb_add"))
		if err := g.SelectUpgrade(0); err != nil {
			t.Fatalf("select: %v", err)
		}
		g.machine.Apply()
	}
	if len(g.Orbs) != 8 || g.Player.OrbCount != 8 {
		t.Fatalf("expected 8 orbs, got %d (count %d)", len(g.Orbs), g.Player.OrbCount)
	}
	if g.Orbs[7].Ring != 1 {
		t.Errorf("eighth orb should sit in ring 1, got %d", g.Orbs[7].Ring)
	}
}

func TestReviveOfferUsesMultiplierPoolWhenMaxed(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	maxOut(g)

	choices := g.RollReviveOptions()
	ids := []string{"gem_mult_x2", "gem_mult_x3", "gem_mult_x5"}
	for i, c := range choices {
		if c.ID != ids[i] {
			t.Errorf("slot %d: expected %s, got %s", i, ids[i], c.ID)
		}
	}

	g.machine.mode = ModeRevive
	g.reviveChoices = choices
	g.Gems = 0
	if err := g.SelectRevive(1); err != nil {
		t.Fatalf("revive: %v", err)
	}
	if g.Player.GemMultiplier != 3 || g.Gems != 30 {
		t.Errorf("expected x3 and 30 gems, got x%d and %d", g.Player.GemMultiplier, g.Gems)
	}
}

func TestReviveOfferGrantsAbilities(t *testing.T) {
	g := newPlayingGame(t, DefaultConfig())
	choices := g.RollReviveOptions()
	if len(choices) != 3 {
		t.Fatalf("expected 3 revive choices, got %d", len(choices))
	}
	for _, c := range choices {
		if c.Priority == PriorityWeapon && c.ID != "revive_arsenal" {
			t.Errorf("unexpected multiplier option %s for a fresh player", c.ID)
		}
	}
}
