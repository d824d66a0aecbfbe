package game

import (
	"errors"
	"fmt"
)

var (
	ErrNoSuchOption = errors.New("no such option")
	ErrNotInMode    = errors.New("not in required mode")
)

// Priority tiers of the upgrade menu
const (
	PriorityWeapon = 4
	PriorityHigh   = 3
	PriorityStat   = 2
	PriorityLife   = 1
)

// Option is one choice offered on the upgrade or revive screen
type Option struct {
	ID          string `msgpack:"id" json:"id"`
	Name        string `msgpack:"n" json:"n"`
	Description string `msgpack:"d" json:"d"`
	Priority    int    `msgpack:"p" json:"p"`
}

type upgradeDef struct {
	Option
	stat     Stat
	value    float64
	eligible func(g *Game) bool
	apply    func(g *Game)
}

func (d upgradeDef) isEligible(g *Game) bool {
	if d.eligible != nil {
		return d.eligible(g)
	}
	return g.Player.CanUpgrade(d.stat)
}

func (d upgradeDef) run(g *Game) {
	if d.apply != nil {
		d.apply(g)
		return
	}
	g.Player.Upgrade(d.stat, d.value)
	g.syncOrbs()
}

func statDef(id, name, desc string, prio int, s Stat, v float64) upgradeDef {
	return upgradeDef{Option: Option{ID: id, Name: name, Description: desc, Priority: prio}, stat: s, value: v}
}

// upgradeDefs is the normal level-up pool
var upgradeDefs = []upgradeDef{
	statDef("triple_shot", "Triple Shot", "Fire two extra angled bullets", PriorityWeapon, StatTripleShot, 1),
	statDef("shotgun_blast", "Shotgun Blast", "Every third volley adds a pellet spread", PriorityWeapon, StatShotgunBlast, 1),
	statDef("homing_missiles", "Homing Missiles", "Every second volley adds a seeking missile", PriorityWeapon, StatHomingMissiles, 1),
	statDef("explosive_cannon", "Explosive Cannon", "Every fourth volley adds an explosive shell", PriorityWeapon, StatExplosiveCannon, 1),
	statDef("fire_rate", "Fire Rate+", "Shoot faster", PriorityHigh, StatFireRate, 1),
	statDef("orb_add", "Orbital Defender", "Add a defender orb", PriorityHigh, StatOrbCount, 1),
	statDef("orb_shooting", "Armed Orbs", "Orbs shoot nearby enemies", PriorityHigh, StatOrbShooting, 1),
	statDef("vampiric", "Vampiric Core", "Kill streaks restore lives", PriorityHigh, StatVampiric, 1),
	statDef("move_speed", "Speed+", "Move faster", PriorityStat, StatMoveSpeed, 0.5),
	statDef("bullet_speed", "Bullet Speed+", "Faster bullets", PriorityStat, StatBulletSpeed, 1),
	statDef("bullet_size", "Bullet Size+", "Bigger bullets", PriorityStat, StatBulletSize, 1),
	statDef("weapon_range", "Range+", "Shoot from further away", PriorityStat, StatRange, 60),
	statDef("magnet_range", "Magnet+", "Collect gems from further away", PriorityStat, StatMagnetRange, 25),
	statDef("shield_duration", "Shield+", "Longer invulnerability after respawn", PriorityStat, StatShieldDuration, 30),
	statDef("orb_speed", "Orb Speed+", "Orbs circle faster", PriorityStat, StatOrbSpeed, 0.012),
	statDef("orb_damage", "Orb Damage+", "Orbs hit harder", PriorityStat, StatOrbDamage, 1),
	{
		Option:   Option{ID: "extra_life", Name: "Extra Life", Description: "Gain one life", Priority: PriorityLife},
		eligible: func(g *Game) bool { return g.Lives < g.cfg.MaxLives },
		apply:    func(g *Game) { g.gainLife() },
	},
}

func gemDef(id, name string, gems int) upgradeDef {
	return upgradeDef{
		Option:   Option{ID: id, Name: name, Description: fmt.Sprintf("+%d gems", gems), Priority: PriorityLife},
		eligible: func(*Game) bool { return true },
		apply:    func(g *Game) { g.addGems(gems) },
	}
}

func fillerDef(cfg *Config) upgradeDef {
	return gemDef("gem_bonus", "Gem Bonus", cfg.FillerGems)
}

func consolationDefs() []upgradeDef {
	return []upgradeDef{
		gemDef("gem_bonus_small", "Gem Bonus", 10),
		gemDef("gem_windfall", "Gem Windfall", 25),
		{
			Option:   Option{ID: "heal_full", Name: "Full Repair", Description: "Restore lives and +5 gems", Priority: PriorityLife},
			eligible: func(*Game) bool { return true },
			apply: func(g *Game) {
				if g.Lives < g.cfg.StartLives {
					g.Lives = g.cfg.StartLives
				}
				g.addGems(5)
			},
		},
	}
}

// reviveDefs grant abilities on resurrection
var reviveDefs = []upgradeDef{
	{
		Option:   Option{ID: "revive_arsenal", Name: "Arsenal", Description: "Unlock a random weapon", Priority: PriorityWeapon},
		eligible: func(g *Game) bool { return len(g.Player.MissingWeapons()) > 0 },
		apply: func(g *Game) {
			missing := g.Player.MissingWeapons()
			g.Player.Upgrade(missing[g.rng.Intn(len(missing))], 1)
		},
	},
	{
		Option:   Option{ID: "revive_orbs", Name: "Guardian Ring", Description: "Gain three defender orbs", Priority: PriorityHigh},
		eligible: func(g *Game) bool { return g.Player.CanUpgrade(StatOrbCount) },
		apply: func(g *Game) {
			g.Player.Upgrade(StatOrbCount, 3)
			g.syncOrbs()
		},
	},
	{
		Option:   Option{ID: "revive_overclock", Name: "Overclock", Description: "Fire rate +3", Priority: PriorityHigh},
		eligible: func(g *Game) bool { return g.Player.CanUpgrade(StatFireRate) },
		apply:    func(g *Game) { g.Player.Upgrade(StatFireRate, 3) },
	},
	{
		Option:   Option{ID: "revive_magnet", Name: "Tractor Field", Description: "Maximum magnet range", Priority: PriorityStat},
		eligible: func(g *Game) bool { return g.Player.CanUpgrade(StatMagnetRange) },
		apply:    func(g *Game) { g.Player.Upgrade(StatMagnetRange, g.cfg.MaxMagnetRange) },
	},
	{
		Option:   Option{ID: "revive_shield", Name: "Aegis", Description: "Shield duration +90", Priority: PriorityStat},
		eligible: func(g *Game) bool { return g.Player.CanUpgrade(StatShieldDuration) },
		apply:    func(g *Game) { g.Player.Upgrade(StatShieldDuration, 90) },
	},
	{
		Option:   Option{ID: "revive_armed_orbs", Name: "Armed Guardians", Description: "Orbs shoot and hit harder", Priority: PriorityHigh},
		eligible: func(g *Game) bool { return g.Player.CanUpgrade(StatOrbShooting) || g.Player.CanUpgrade(StatOrbDamage) },
		apply: func(g *Game) {
			g.Player.Upgrade(StatOrbShooting, 1)
			g.Player.Upgrade(StatOrbDamage, 1)
			g.syncOrbs()
		},
	},
}

func multiplierDef(mult, gems int) upgradeDef {
	return upgradeDef{
		Option: Option{
			ID:          fmt.Sprintf("gem_mult_x%d", mult),
			Name:        fmt.Sprintf("Gem Multiplier x%d", mult),
			Description: fmt.Sprintf("All gems x%d, +%d gems now", mult, gems),
			Priority:    PriorityWeapon,
		},
		eligible: func(*Game) bool { return true },
		apply: func(g *Game) {
			g.Player.Upgrade(StatGemMultiplier, float64(mult))
			g.Gems += gems
		},
	}
}

func multiplierDefs() []upgradeDef {
	return []upgradeDef{multiplierDef(2, 20), multiplierDef(3, 30), multiplierDef(5, 50)}
}

// pick removes and returns n random entries from pool
func (g *Game) pick(pool []upgradeDef, n int) ([]upgradeDef, []upgradeDef) {
	var out []upgradeDef
	for len(out) < n && len(pool) > 0 {
		i := g.rng.Intn(len(pool))
		out = append(out, pool[i])
		pool = append(pool[:i:i], pool[i+1:]...)
	}
	return out, pool
}

// fullyMaxed reports whether no normal ability upgrade remains
func (g *Game) fullyMaxed() bool {
	for _, d := range upgradeDefs {
		if d.ID == "extra_life" {
			continue
		}
		if d.isEligible(g) {
			return false
		}
	}
	return true
}

// RollUpgradeOptions builds the three upgrade choices for the current
// player state
func (g *Game) RollUpgradeOptions() []upgradeDef {
	var top, rest []upgradeDef
	for _, d := range upgradeDefs {
		if !d.isEligible(g) {
			continue
		}
		if d.Priority >= PriorityWeapon {
			top = append(top, d)
		} else {
			rest = append(rest, d)
		}
	}
	if len(top)+len(rest) == 0 {
		return consolationDefs()
	}
	chosen, _ := g.pick(top, 2)
	more, _ := g.pick(rest, 3-len(chosen))
	chosen = append(chosen, more...)
	for len(chosen) < 3 {
		chosen = append(chosen, fillerDef(g.cfg))
	}
	return chosen
}

// RollReviveOptions builds the three revive choices
func (g *Game) RollReviveOptions() []upgradeDef {
	if g.fullyMaxed() {
		return multiplierDefs()
	}
	var pool []upgradeDef
	for _, d := range reviveDefs {
		if d.isEligible(g) {
			pool = append(pool, d)
		}
	}
	chosen, _ := g.pick(pool, 3)
	for _, m := range multiplierDefs() {
		if len(chosen) >= 3 {
			break
		}
		chosen = append(chosen, m)
	}
	return chosen
}

func optionsOf(defs []upgradeDef) []Option {
	out := make([]Option, len(defs))
	for i, d := range defs {
		out[i] = d.Option
	}
	return out
}

// Options returns the choices currently on screen
func (g *Game) Options() []Option {
	switch g.machine.Mode() {
	case ModeUpgrade:
		return optionsOf(g.upgradeChoices)
	case ModeRevive:
		return optionsOf(g.reviveChoices)
	}
	return nil
}

// SelectUpgrade applies the i-th upgrade choice, pays exactly the
// current cost, grows the cost geometrically and resumes play.
func (g *Game) SelectUpgrade(i int) error {
	if g.machine.Mode() != ModeUpgrade {
		return fmt.Errorf("select upgrade in %s: %w", g.machine.Mode(), ErrNotInMode)
	}
	if _, pending := g.machine.Pending(); pending {
		return fmt.Errorf("select upgrade: %w", ErrTransitionPending)
	}
	if i < 0 || i >= len(g.upgradeChoices) {
		return fmt.Errorf("upgrade %d: %w", i, ErrNoSuchOption)
	}
	d := g.upgradeChoices[i]

	g.Gems -= g.GemsForUpgrade
	if g.Gems < 0 {
		g.Gems = 0
	}
	next := int(float64(g.GemsForUpgrade) * g.cfg.CostMultiplier)
	if next > g.GemsForUpgrade {
		g.GemsForUpgrade = next
	}
	d.run(g)

	g.director.UpgradesThisWave++
	g.Upgrades++
	g.upgradeChoices = nil
	g.playSound(SfxUpgrade)
	g.emit(EventUpgradePicked, d.ID)
	return g.machine.Request(ModePlaying)
}

// SelectRevive resurrects the player with the i-th revive choice
func (g *Game) SelectRevive(i int) error {
	if g.machine.Mode() != ModeRevive {
		return fmt.Errorf("select revive in %s: %w", g.machine.Mode(), ErrNotInMode)
	}
	if _, pending := g.machine.Pending(); pending {
		return fmt.Errorf("select revive: %w", ErrTransitionPending)
	}
	if i < 0 || i >= len(g.reviveChoices) {
		return fmt.Errorf("revive %d: %w", i, ErrNoSuchOption)
	}
	d := g.reviveChoices[i]

	g.Lives = g.cfg.StartLives
	g.Resurrections++
	p := g.Player
	p.X, p.Y = g.cfg.WorldWidth/2, g.cfg.WorldHeight/2
	g.clearEnemiesNear(p.X, p.Y, g.cfg.ReviveClearDist)
	d.run(g)
	p.Grant(p.ShieldDuration)
	g.camera.SnapTo(p.X, p.Y)
	g.camera.TargetZoom = 1
	g.reviveChoices = nil

	g.playSound(SfxRevive)
	g.emit(EventRevived, d.ID)
	return g.machine.Request(ModePlaying)
}

// SkipRevive declines resurrection and ends the run
func (g *Game) SkipRevive() error {
	if g.machine.Mode() != ModeRevive {
		return fmt.Errorf("skip revive in %s: %w", g.machine.Mode(), ErrNotInMode)
	}
	g.reviveChoices = nil
	return g.machine.Request(ModeGameOver)
}
