package game

import (
	"fmt"
	"math"
)

// rollLoot runs the single drop trial for a dying enemy and places a
// loot box on success.
func (g *Game) rollLoot(e *Enemy) bool {
	chance := g.cfg.LootChance
	if e.Type.Elite() {
		chance = g.cfg.EliteLootChance
	}
	if g.rng.Float64() >= chance {
		return false
	}
	lt := LootType(g.rng.Intn(lootTypeCount))
	g.Drops = append(g.Drops, NewLootBox(e.X, e.Y, lt))
	return true
}

// gemFallback is the guaranteed grant when a loot effect has nothing
// left to give
func (g *Game) gemFallback() string {
	n := g.cfg.FallbackGems * g.Player.GemMultiplier
	g.addGems(n)
	return fmt.Sprintf("+%d gems", n)
}

// ResolveLoot applies a loot box effect and returns a short description
// of what it granted. No type is ever a no-op.
func (g *Game) ResolveLoot(lt LootType) string {
	var detail string
	switch lt {
	case LootTreasure:
		n := (15 + g.rng.Intn(21)) * g.Player.GemMultiplier
		g.addGems(n)
		detail = fmt.Sprintf("+%d gems", n)
	case LootWeapon:
		detail = g.lootWeapon()
	case LootNuke:
		detail = g.lootNuke()
	case LootMagnet:
		detail = g.lootMagnet()
	case LootOrbShield:
		detail = g.lootOrbShield()
	case LootOrbUpgrade:
		detail = g.lootOrbUpgrade()
	case LootUtility:
		detail = g.lootUtility()
	default:
		detail = g.gemFallback()
	}
	g.playSound(SfxLootBox)
	g.emit(EventLootOpened, lt.String()+": "+detail)
	return detail
}

func (g *Game) lootWeapon() string {
	missing := g.Player.MissingWeapons()
	if len(missing) == 0 {
		return g.gemFallback()
	}
	s := missing[g.rng.Intn(len(missing))]
	g.Player.Upgrade(s, 1)
	return "weapon unlocked"
}

// lootNuke destroys every enemy and pays out their points and gems
// directly. Shredders do not split.
func (g *Game) lootNuke() string {
	if len(g.Enemies) == 0 {
		return g.gemFallback()
	}
	n := len(g.Enemies)
	points, gems := 0, 0
	for i := len(g.Enemies) - 1; i >= 0; i-- {
		e := g.Enemies[i]
		points += e.Points
		gems += e.GemValue() * g.Player.GemMultiplier
		g.fx.Schedule(0, EffectBurst, e.X, e.Y, GetEnemyDef(e.Type).Color, 8)
		g.Enemies[i] = nil
	}
	g.Enemies = g.Enemies[:0]
	g.addKills(n)
	g.Score += points
	g.addGems(gems)

	p := g.Player
	for i := 0; i < 3; i++ {
		g.fx.Schedule(i*8, EffectShockwave, p.X, p.Y, "#ffffff", 36)
	}
	g.playSound(SfxNuke)
	return fmt.Sprintf("%d destroyed, +%d gems", n, gems)
}

// lootMagnet collects every gem on the field, loot boxes excluded
func (g *Game) lootMagnet() string {
	total := 0
	for i := len(g.Drops) - 1; i >= 0; i-- {
		d := g.Drops[i]
		if d == nil || d.Kind != DropGem || !d.Valid() {
			continue
		}
		total += d.Value * g.Player.GemMultiplier
		g.removeDrop(i)
	}
	if total == 0 {
		return g.gemFallback()
	}
	g.addGems(total)
	return fmt.Sprintf("+%d gems collected", total)
}

func (g *Game) lootOrbShield() string {
	p := g.Player
	want := 1 + g.rng.Intn(2)
	room := g.cfg.MaxOrbs - p.OrbCount
	add := minInt(want, room)
	if add <= 0 {
		return g.gemFallback()
	}
	p.Upgrade(StatOrbCount, float64(add))
	g.syncOrbs()
	if add < want {
		return fmt.Sprintf("+%d orbs, %s", add, g.gemFallback())
	}
	return fmt.Sprintf("+%d orbs", add)
}

func (g *Game) lootOrbUpgrade() string {
	p := g.Player
	if p.OrbCount == 0 {
		if !p.Upgrade(StatOrbCount, 1) {
			return g.gemFallback()
		}
		p.Upgrade(StatOrbDamage, 1)
		g.syncOrbs()
		return "first orb"
	}
	var pool []Stat
	for _, s := range []Stat{StatOrbSpeed, StatOrbShooting, StatOrbCount} {
		if p.CanUpgrade(s) {
			pool = append(pool, s)
		}
	}
	if len(pool) == 0 {
		return g.gemFallback()
	}
	s := pool[g.rng.Intn(len(pool))]
	switch s {
	case StatOrbSpeed:
		p.Upgrade(s, 0.012)
	default:
		p.Upgrade(s, 1)
	}
	g.syncOrbs()
	return "orbs enhanced"
}

// utilityBoosts are the stat bumps a utility box can roll
var utilityBoosts = []struct {
	stat  Stat
	value float64
}{
	{StatMagnetRange, 25},
	{StatMoveSpeed, 0.5},
	{StatFireRate, 1},
	{StatRange, 60},
	{StatShieldDuration, 30},
}

func (g *Game) lootUtility() string {
	p := g.Player
	var pool []int
	for i, b := range utilityBoosts {
		if p.CanUpgrade(b.stat) {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		return g.gemFallback()
	}
	n := minInt(1+g.rng.Intn(2), len(pool))
	for k := 0; k < n; k++ {
		j := g.rng.Intn(len(pool))
		b := utilityBoosts[pool[j]]
		p.Upgrade(b.stat, b.value)
		pool = append(pool[:j], pool[j+1:]...)
	}
	return fmt.Sprintf("%d boosts", n)
}

// collectDrop pays out a drop the player touched
func (g *Game) collectDrop(d *Drop) {
	switch d.Kind {
	case DropGem:
		g.addGems(d.Value * g.Player.GemMultiplier)
		g.playSound(SfxGem)
	case DropLootBox:
		g.fx.Schedule(0, EffectRing, d.X, d.Y, d.Colors[0], 16)
		g.ResolveLoot(d.LootType)
	}
}

func (g *Game) removeDrop(i int) {
	last := len(g.Drops) - 1
	copy(g.Drops[i:], g.Drops[i+1:])
	g.Drops[last] = nil
	g.Drops = g.Drops[:last]
}

// updateDrops moves drops, skips malformed ones and collects touched
// ones. Payouts run after the pass since a magnet box edits the list.
func (g *Game) updateDrops() {
	p := g.Player
	var touched []*Drop
	for i := len(g.Drops) - 1; i >= 0; i-- {
		d := g.Drops[i]
		if !d.Valid() {
			g.removeDrop(i)
			continue
		}
		d.Update(p.X, p.Y, p.MagnetRange, g.cfg)
		if math.IsNaN(d.X) || math.IsNaN(d.Y) {
			g.removeDrop(i)
			continue
		}
		if CheckCollision(d.X, d.Y, d.Radius(), p.X, p.Y, p.Radius) {
			g.removeDrop(i)
			touched = append(touched, d)
		}
	}
	for _, d := range touched {
		g.collectDrop(d)
	}
}
