package game

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	maxBullets   = 600
	maxEvents    = 256
	safeSamples  = 12
	splitOffset  = 10.0
	orbBulletR   = 3.0
	indicatorPad = 24.0
)

// Game holds the state of one run. It is not safe for concurrent use;
// the host serializes Tick and the Select* calls.
type Game struct {
	cfg   *Config
	rng   *rand.Rand
	audio Audio

	machine  *Machine
	director *WaveDirector
	camera   *Camera
	combo    Combo
	grid     *SpatialGrid
	queryBuf []int
	fx       FX

	Player  *Player
	Enemies []*Enemy
	Bullets []*Bullet
	Drops   []*Drop
	Orbs    []*Orb

	Score          int
	Lives          int
	Gems           int
	GemsForUpgrade int
	Resurrections  int
	Kills          int
	Upgrades       int

	totalSpawned int
	nextEnemyID  uint32

	frame       uint64
	runFrames   int
	timeScale   float64
	orbPhase    float64
	tpRelocated bool
	tpX, tpY    float64

	upgradeChoices []upgradeDef
	reviveChoices  []upgradeDef
	events         []Event
}

// NewGame creates a game sitting in the menu. A nil audio sink is
// replaced with a silent one.
func NewGame(cfg Config, audio Audio) *Game {
	if audio == nil {
		audio = nopAudio{}
	}
	g := &Game{
		cfg:     &cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		audio:   audio,
		machine: NewMachine(),
		grid:    NewSpatialGrid(cfg.WorldWidth, cfg.WorldHeight),
	}
	g.reset()
	g.registerTransitions()
	return g
}

// reset rebuilds all run-scoped state
func (g *Game) reset() {
	cfg := g.cfg
	g.Player = NewPlayer(cfg)
	g.Enemies = g.Enemies[:0]
	g.Bullets = g.Bullets[:0]
	g.Drops = g.Drops[:0]
	g.Orbs = g.Orbs[:0]
	g.fx.Reset()

	g.director = NewWaveDirector()
	vw, vh := cfg.ViewWidth, cfg.ViewHeight
	if g.camera != nil {
		vw, vh = g.camera.ViewW, g.camera.ViewH
	}
	g.camera = NewCamera(g.Player.X, g.Player.Y, cfg)
	g.camera.SetViewport(vw, vh)
	g.combo = NewCombo(cfg.ComboWindow, cfg.ComboStep, cfg.ComboMaxMult)

	g.Score = 0
	g.Lives = cfg.StartLives
	g.Gems = 0
	g.GemsForUpgrade = cfg.BaseUpgradeCost
	g.Resurrections = 0
	g.Kills = 0
	g.Upgrades = 0
	g.totalSpawned = 0
	g.runFrames = 0
	g.timeScale = 1
	g.orbPhase = 0
	g.tpRelocated = false
	g.upgradeChoices = nil
	g.reviveChoices = nil
}

func (g *Game) registerTransitions() {
	m := g.machine

	m.OnEnter(ModePlaying, func(from Mode) {
		switch from {
		case ModeMenu:
			g.reset()
			g.director.Trickle(g, g.cfg.TrickleSpawn)
			g.emit(EventRunStarted)
		case ModeTeleporting:
			g.camera.Release()
		}
	})

	m.OnEnter(ModeWaveAnnouncement, func(Mode) {
		if g.director.Forced {
			g.emit(EventWaveComplete, "forced")
		} else {
			g.emit(EventWaveComplete)
		}
		g.director.NextWave()
		g.playSound(SfxWave)
		g.emit(EventWaveStarted)
	})
	m.OnExit(ModeWaveAnnouncement, func(Mode) {
		g.director.Trickle(g, g.cfg.TrickleSpawn)
	})

	m.OnEnter(ModeUpgrade, func(Mode) {
		g.upgradeChoices = g.RollUpgradeOptions()
		g.emit(EventUpgradeReady)
	})

	m.OnEnter(ModeDeathSequence, func(Mode) {
		p := g.Player
		g.timeScale = g.cfg.DeathTimeScale
		g.combo.Reset()
		g.camera.TargetZoom = g.cfg.DeathZoom
		for i := 0; i < 3; i++ {
			g.fx.Schedule(i*12, EffectShockwave, p.X, p.Y, "#ff4444", 24)
		}
		g.fx.Schedule(0, EffectBurst, p.X, p.Y, "#ffffff", 30)
		g.playSound(SfxPlayerHit)
		g.emit(EventLifeLost)
	})
	m.OnExit(ModeDeathSequence, func(Mode) {
		g.timeScale = 1
	})

	m.OnEnter(ModeTeleporting, func(Mode) {
		g.tpX, g.tpY = g.safePoint()
		g.tpRelocated = false
		g.camera.StartTeleport(g.tpX, g.tpY, g.cfg.TeleportFrames)
		g.playSound(SfxTeleport)
	})

	m.OnEnter(ModeRevive, func(Mode) {
		g.reviveChoices = g.RollReviveOptions()
		g.emit(EventReviveOffered)
	})

	m.OnEnter(ModeGameOver, func(Mode) {
		g.camera.TargetZoom = 1
		g.playSound(SfxGameOver)
		g.emit(EventGameOver)
	})
}

// Mode returns the current top-level mode
func (g *Game) Mode() Mode {
	return g.machine.Mode()
}

// Wave returns the current wave number
func (g *Game) Wave() int {
	return g.director.Wave
}

// Director exposes the wave director for inspection
func (g *Game) Director() *WaveDirector {
	return g.director
}

// Camera exposes the camera so hosts can update the viewport
func (g *Game) Camera() *Camera {
	return g.camera
}

// Combo returns a copy of the combo tracker
func (g *Game) Combo() Combo {
	return g.combo
}

// Config returns the tuning of this game
func (g *Game) Config() Config {
	return *g.cfg
}

// Start leaves the menu; the run resets on the next tick
func (g *Game) Start() error {
	if g.machine.Mode() != ModeMenu {
		return fmt.Errorf("start in %s: %w", g.machine.Mode(), ErrNotInMode)
	}
	return g.machine.Request(ModePlaying)
}

// ReturnToMenu leaves the game-over screen
func (g *Game) ReturnToMenu() error {
	if g.machine.Mode() != ModeGameOver {
		return fmt.Errorf("menu in %s: %w", g.machine.Mode(), ErrNotInMode)
	}
	return g.machine.Request(ModeMenu)
}

// SetViewport forwards the client screen size to the camera
func (g *Game) SetViewport(w, h float64) {
	g.camera.SetViewport(w, h)
}

func (g *Game) nextID() uint32 {
	g.nextEnemyID++
	return g.nextEnemyID
}

// emit queues a UI notification. The oldest entries are dropped if
// nobody drains the queue.
func (g *Game) emit(t EventType, detail ...string) {
	ev := Event{Type: t, Wave: g.director.Wave}
	if len(detail) > 0 {
		ev.Detail = detail[0]
	}
	if len(g.events) >= maxEvents {
		copy(g.events, g.events[1:])
		g.events = g.events[:len(g.events)-1]
	}
	g.events = append(g.events, ev)
}

// DrainEvents returns and clears the queued notifications
func (g *Game) DrainEvents() []Event {
	out := g.events
	g.events = nil
	return out
}

// playSound hands a cue to the audio sink; sink panics never reach the
// simulation.
func (g *Game) playSound(name string) {
	defer func() { recover() }()
	g.audio.PlayEffect(name)
}

func (g *Game) addGems(n int) {
	g.Gems += n
	if g.Gems < 0 {
		g.Gems = 0
	}
}

func (g *Game) gainLife() {
	if g.Lives < g.cfg.MaxLives {
		g.Lives++
		g.emit(EventLifeGained)
	}
}

// syncOrbs grows the orb list to the player's orb count and repacks
// the rings
func (g *Game) syncOrbs() {
	p := g.Player
	if p.OrbCount > g.cfg.MaxOrbs {
		p.OrbCount = g.cfg.MaxOrbs
	}
	for len(g.Orbs) < p.OrbCount {
		g.Orbs = append(g.Orbs, &Orb{})
	}
	ReorganizeOrbs(g.Orbs, g.cfg.OrbRingCapacity, g.cfg.OrbBaseDistance, g.cfg.OrbRingSpacing, p.OrbDamage)
	for _, o := range g.Orbs {
		o.Shooting = p.OrbShooting
	}
	UpdateOrbs(g.Orbs, g.cfg.OrbRingCapacity, p.X, p.Y, g.orbPhase)
}

// Tick advances the simulation by one frame. A transition requested
// during the previous tick takes effect first.
func (g *Game) Tick(in Input) {
	g.frame++
	g.machine.Apply()

	switch g.machine.Mode() {
	case ModePlaying:
		g.runFrames++
		g.updatePlaying(in)
	case ModeWaveAnnouncement:
		g.runFrames++
		if g.machine.Frames() >= g.cfg.AnnounceFrames {
			g.machine.Request(ModePlaying)
		}
	case ModeDeathSequence:
		g.runFrames++
		g.updateDeath()
	case ModeTeleporting:
		g.runFrames++
		g.updateTeleport()
	}

	mode := g.machine.Mode()
	if mode == ModeMenu {
		return
	}
	if mode != ModeGameOver {
		// slow motion skips a fraction of the cosmetic passes
		if g.timeScale >= 1 || g.rng.Float64() < g.timeScale {
			g.fx.Update(g.rng)
		}
	}
	g.camera.Follow(g.Player.X, g.Player.Y)
}

func (g *Game) updatePlaying(in Input) {
	p := g.Player
	g.combo.Tick()
	p.Move(in)

	for _, e := range g.Enemies {
		e.Update(p.X, p.Y, float64(g.cfg.SpawnDuration), g.cfg.WorldWidth, g.cfg.WorldHeight)
	}

	g.updateFiring(in)
	g.updateOrbs()

	for i := len(g.Bullets) - 1; i >= 0; i-- {
		if !g.Bullets[i].Update(g.Enemies, g.cfg.WorldWidth, g.cfg.WorldHeight) {
			g.removeBullet(i)
		}
	}

	hit := g.resolveCollisions()
	g.updateDrops()

	if hit {
		g.Lives--
		if g.Lives < 0 {
			g.Lives = 0
		}
		g.machine.Request(ModeDeathSequence)
		return
	}
	if g.Gems >= g.GemsForUpgrade {
		g.machine.Request(ModeUpgrade)
		return
	}
	if g.director.Spawn(g) {
		g.machine.Request(ModeWaveAnnouncement)
	}
}

// nearestEnemy returns the closest active enemy within maxDist of
// (x, y), or nil
func (g *Game) nearestEnemy(x, y, maxDist float64) *Enemy {
	var best *Enemy
	bestD := maxDist * maxDist
	for _, e := range g.Enemies {
		if !e.Active() || e.Health <= 0 {
			continue
		}
		if d := DistanceSq(x, y, e.X, e.Y); d < bestD {
			bestD = d
			best = e
		}
	}
	return best
}

func (g *Game) updateFiring(in Input) {
	p := g.Player
	target := g.nearestEnemy(p.X, p.Y, p.BulletLength)
	if target == nil {
		// no target, no fire; face the pointer
		wx, wy := g.camera.ScreenToWorld(in.PointerX, in.PointerY)
		if DistanceSq(p.X, p.Y, wx, wy) > 25 {
			p.Angle = math.Atan2(wy-p.Y, wx-p.X)
		}
		return
	}
	p.Angle = math.Atan2(target.Y-p.Y, target.X-p.X)
	if p.FireTimer > 0 {
		return
	}
	g.fireVolley(p.Angle, target)
	p.FireTimer = p.FireRate
}

func (g *Game) addBullet(b *Bullet) {
	if len(g.Bullets) < maxBullets {
		g.Bullets = append(g.Bullets, b)
	}
}

func (g *Game) removeBullet(i int) {
	last := len(g.Bullets) - 1
	g.Bullets[i] = g.Bullets[last]
	g.Bullets[last] = nil
	g.Bullets = g.Bullets[:last]
}

// fireVolley emits the basic shot plus whatever the unlocked weapons
// add on this volley
func (g *Game) fireVolley(angle float64, target *Enemy) {
	cfg := g.cfg
	p := g.Player
	p.Volley++
	speed, size := p.BulletSpeed, p.BulletSize

	b := NewBullet(BulletBasic, p.X, p.Y, angle, speed, size, cfg.BasicDamage)
	b.MaxDist = p.BulletLength
	g.addBullet(b)

	if p.TripleShot {
		for _, off := range []float64{-cfg.TripleSpread, cfg.TripleSpread} {
			b := NewBullet(BulletTriple, p.X, p.Y, angle+off, speed, size, cfg.BasicDamage)
			b.MaxDist = p.BulletLength
			g.addBullet(b)
		}
	}
	if p.ShotgunBlast && p.Volley%cfg.ShotgunEvery == 0 {
		n := cfg.PelletCount
		for i := 0; i < n; i++ {
			off := 0.0
			if n > 1 {
				off = (float64(i)/float64(n-1) - 0.5) * cfg.PelletSpread
			}
			b := NewBullet(BulletPellet, p.X, p.Y, angle+off, speed*0.9, size*0.75, cfg.PelletDamage)
			b.MaxDist = cfg.PelletMaxDist
			g.addBullet(b)
		}
	}
	if p.HomingMissiles && p.Volley%cfg.HomingEvery == 0 {
		b := NewBullet(BulletHoming, p.X, p.Y, angle, speed*0.8, size, cfg.HomingDamage)
		b.MaxDist = p.BulletLength * 1.5
		b.TurnRate = cfg.HomingTurnRate
		b.TargetID = target.ID
		b.HasTarget = true
		g.addBullet(b)
	}
	if p.ExplosiveCannon && p.Volley%cfg.ExplosiveEvery == 0 {
		b := NewBullet(BulletExplosive, p.X, p.Y, angle, speed*0.7, size*1.5, cfg.ExplosiveDamage)
		b.MaxDist = p.BulletLength
		g.addBullet(b)
	}
	g.playSound(SfxShoot)
}

func (g *Game) updateOrbs() {
	if len(g.Orbs) == 0 {
		return
	}
	p := g.Player
	g.orbPhase += p.OrbSpeed
	UpdateOrbs(g.Orbs, g.cfg.OrbRingCapacity, p.X, p.Y, g.orbPhase)
	for _, o := range g.Orbs {
		if o.FireCD > 0 {
			o.FireCD--
		}
		if !o.Shooting || o.FireCD > 0 {
			continue
		}
		target := g.nearestEnemy(o.X, o.Y, g.cfg.OrbFireRange)
		if target == nil {
			continue
		}
		a := math.Atan2(target.Y-o.Y, target.X-o.X)
		b := NewBullet(BulletOrb, o.X, o.Y, a, g.cfg.OrbBulletSpeed, orbBulletR, o.Damage)
		b.MaxDist = g.cfg.OrbBulletMaxDist
		g.addBullet(b)
		o.FireCD = g.cfg.OrbFireCooldown
	}
}

// resolveCollisions runs every overlap test of the frame and sweeps
// dead enemies. Returns true if an enemy touched a vulnerable player.
func (g *Game) resolveCollisions() bool {
	g.grid.Clear()
	for i, e := range g.Enemies {
		if e.Active() {
			g.grid.InsertCircle(e.X, e.Y, e.Radius, i)
		}
	}

	for i := len(g.Bullets) - 1; i >= 0; i-- {
		b := g.Bullets[i]
		g.queryBuf = g.grid.QueryBuf(b.X, b.Y, b.Radius, g.queryBuf[:0])
		hit := false
		for _, idx := range g.queryBuf {
			e := g.Enemies[idx]
			if e.Health <= 0 || !CheckCollision(b.X, b.Y, b.Radius, e.X, e.Y, e.Radius) {
				continue
			}
			hit = true
			if b.Type == BulletExplosive {
				g.explode(b.X, b.Y, b.Damage)
			} else {
				e.TakeDamage(b.Damage)
				g.fx.Schedule(0, EffectBurst, b.X, b.Y, "#ffff88", 3)
				g.playSound(SfxHit)
			}
			break
		}
		if hit {
			g.removeBullet(i)
		}
	}

	for oi, o := range g.Orbs {
		g.queryBuf = g.grid.QueryBuf(o.X, o.Y, g.cfg.OrbRadius, g.queryBuf[:0])
		for _, idx := range g.queryBuf {
			e := g.Enemies[idx]
			if e.Health <= 0 || !CheckCollision(o.X, o.Y, g.cfg.OrbRadius, e.X, e.Y, e.Radius) {
				continue
			}
			if e.orbReady(oi, g.cfg.OrbHitCooldown) {
				e.TakeDamage(o.Damage)
			}
		}
	}

	playerHit := false
	if _, pending := g.machine.Pending(); !pending && !g.Player.Invulnerable {
		p := g.Player
		g.queryBuf = g.grid.QueryBuf(p.X, p.Y, p.Radius, g.queryBuf[:0])
		for _, idx := range g.queryBuf {
			e := g.Enemies[idx]
			if e.Health > 0 && CheckCollision(p.X, p.Y, p.Radius, e.X, e.Y, e.Radius) {
				playerHit = true
				break
			}
		}
	}

	g.sweepDead()
	return playerHit
}

// explode deals falloff damage to every active enemy within the blast
func (g *Game) explode(x, y, damage float64) {
	r := g.cfg.BlastRadius
	g.queryBuf = g.grid.QueryBuf(x, y, r, g.queryBuf[:0])
	for _, idx := range g.queryBuf {
		e := g.Enemies[idx]
		if dmg := BlastDamage(damage, Distance(x, y, e.X, e.Y), r); dmg > 0 {
			e.TakeDamage(dmg)
		}
	}
	g.fx.Schedule(0, EffectRing, x, y, "#ff8800", 18)
	g.fx.Schedule(4, EffectBurst, x, y, "#ffcc00", 12)
	g.playSound(SfxExplosion)
}

// sweepDead removes every enemy at or below zero health, paying out
// exactly one reward each
func (g *Game) sweepDead() {
	var children []*Enemy
	for i := len(g.Enemies) - 1; i >= 0; i-- {
		e := g.Enemies[i]
		if e.Health > 0 {
			continue
		}
		g.rewardKill(e)
		if e.Type == EnemyShredder && !e.Child {
			children = append(children, g.split(e)...)
		}
		last := len(g.Enemies) - 1
		copy(g.Enemies[i:], g.Enemies[i+1:])
		g.Enemies[last] = nil
		g.Enemies = g.Enemies[:last]
	}
	g.Enemies = append(g.Enemies, children...)
}

// addKills counts n kills. A vampiric player gains a life for every
// multiple of VampiricKills crossed.
func (g *Game) addKills(n int) {
	before := g.Kills
	g.Kills += n
	every := g.cfg.VampiricKills
	if !g.Player.Vampiric || every <= 0 {
		return
	}
	for i := before / every; i < g.Kills/every; i++ {
		g.gainLife()
	}
}

func (g *Game) rewardKill(e *Enemy) {
	g.addKills(1)
	g.Score += g.combo.Kill(e.Points)
	if !g.rollLoot(e) {
		g.Drops = append(g.Drops, NewGem(e.X, e.Y, e.GemValue(), g.rng.Float64()*2*math.Pi))
	}
	g.fx.Schedule(0, EffectBurst, e.X, e.Y, GetEnemyDef(e.Type).Color, 14)
	g.playSound(SfxKill)
}

// split spawns the two scout children of a dead shredder. Children are
// active at once and stay outside the wave budget.
func (g *Game) split(e *Enemy) []*Enemy {
	out := make([]*Enemy, 0, 2)
	for _, dir := range []float64{-1, 1} {
		a := e.Rotation + dir*math.Pi/2
		c := NewEnemy(g.nextID(), EnemyScout, e.X+math.Cos(a)*splitOffset, e.Y+math.Sin(a)*splitOffset, e.Wave, 0)
		c.Child = true
		out = append(out, c)
		g.totalSpawned++
	}
	return out
}

// clearEnemiesNear removes enemies within r of (x, y) without rewards
func (g *Game) clearEnemiesNear(x, y, r float64) int {
	n := 0
	for i := len(g.Enemies) - 1; i >= 0; i-- {
		e := g.Enemies[i]
		if Distance(x, y, e.X, e.Y) >= r {
			continue
		}
		g.fx.Schedule(0, EffectBurst, e.X, e.Y, GetEnemyDef(e.Type).Color, 6)
		last := len(g.Enemies) - 1
		copy(g.Enemies[i:], g.Enemies[i+1:])
		g.Enemies[last] = nil
		g.Enemies = g.Enemies[:last]
		n++
	}
	return n
}

func (g *Game) updateDeath() {
	if g.machine.Frames() < g.cfg.DeathFrames {
		return
	}
	switch {
	case g.Lives > 0:
		g.machine.Request(ModeTeleporting)
	case g.Resurrections < g.cfg.MaxResurrections:
		g.machine.Request(ModeRevive)
	default:
		g.machine.Request(ModeGameOver)
	}
}

// updateTeleport drives the eased respawn. The player moves at the
// halfway point; the follow lock is released on re-entering play.
func (g *Game) updateTeleport() {
	progress := g.camera.UpdateTeleport()
	if !g.tpRelocated && progress >= 0.5 {
		p := g.Player
		p.X, p.Y = g.tpX, g.tpY
		g.clearEnemiesNear(p.X, p.Y, g.cfg.SafeRadius)
		p.Grant(p.ShieldDuration)
		g.syncOrbs()
		g.fx.Schedule(0, EffectRing, p.X, p.Y, "#66ccff", 24)
		g.tpRelocated = true
	}
	if !g.camera.Teleporting() {
		g.camera.TargetZoom = 1
		g.machine.Request(ModePlaying)
	}
}

// safePoint picks the sampled point farthest from every enemy. The
// current position wins ties, so an empty arena keeps the player put.
func (g *Game) safePoint() (float64, float64) {
	cfg := g.cfg
	p := g.Player
	bestX, bestY := p.X, p.Y
	best := g.nearestEnemyDist(bestX, bestY)
	if cfg.WorldWidth <= 2*cfg.SafeRadius || cfg.WorldHeight <= 2*cfg.SafeRadius {
		return bestX, bestY
	}
	for i := 0; i < safeSamples; i++ {
		x := cfg.SafeRadius + g.rng.Float64()*(cfg.WorldWidth-2*cfg.SafeRadius)
		y := cfg.SafeRadius + g.rng.Float64()*(cfg.WorldHeight-2*cfg.SafeRadius)
		if d := g.nearestEnemyDist(x, y); d > best {
			best, bestX, bestY = d, x, y
		}
	}
	return bestX, bestY
}

func (g *Game) nearestEnemyDist(x, y float64) float64 {
	best := math.MaxFloat64
	for _, e := range g.Enemies {
		if d := Distance(x, y, e.X, e.Y); d < best {
			best = d
		}
	}
	return best
}

// FormatTime renders a frame count as m:ss
func FormatTime(frames int) string {
	secs := frames / TickRate
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Result summarizes a run for the leaderboard
type Result struct {
	Score     int    `json:"score"`
	Kills     int    `json:"kills"`
	Wave      int    `json:"wave"`
	Time      string `json:"time"`
	Seconds   int    `json:"seconds"`
	BestCombo int    `json:"best_combo"`
}

// Result returns the current run summary
func (g *Game) Result() Result {
	return Result{
		Score:     g.Score,
		Kills:     g.Kills,
		Wave:      g.director.Wave,
		Time:      FormatTime(g.runFrames),
		Seconds:   g.runFrames / TickRate,
		BestCombo: g.combo.Best,
	}
}

// Snapshot copies the renderable state
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Mode:           g.machine.Mode().String(),
		Frame:          g.frame,
		Score:          g.Score,
		Wave:           g.director.Wave,
		Bonus:          g.director.Bonus,
		Lives:          g.Lives,
		Gems:           g.Gems,
		GemsForUpgrade: g.GemsForUpgrade,
		Kills:          g.Kills,
		Combo:          g.combo.Count,
		ComboMult:      g.combo.Multiplier,
		Time:           FormatTime(g.runFrames),
		Camera:         CameraState{X: round1(g.camera.X), Y: round1(g.camera.Y), Zoom: math.Round(g.camera.zoom()*1000) / 1000},
		Player:         g.Player.ToState(),
		Enemies:        make([]EnemyState, 0, len(g.Enemies)),
		Bullets:        make([]BulletState, 0, len(g.Bullets)),
		Drops:          make([]DropState, 0, len(g.Drops)),
		Orbs:           make([]OrbState, 0, len(g.Orbs)),
		Particles:      make([]ParticleState, 0, len(g.fx.Particles)),
		Options:        g.Options(),
	}
	margin := g.cfg.VisibleMargin
	for _, e := range g.Enemies {
		if g.camera.IsVisible(e.X, e.Y, margin+e.Radius) {
			s.Enemies = append(s.Enemies, e.ToState())
		}
	}
	for _, b := range g.Bullets {
		if g.camera.IsVisible(b.X, b.Y, margin) {
			s.Bullets = append(s.Bullets, b.ToState())
		}
	}
	for _, d := range g.Drops {
		if g.camera.IsVisible(d.X, d.Y, margin) {
			s.Drops = append(s.Drops, d.ToState())
		} else if d.Kind == DropLootBox {
			s.Indicators = append(s.Indicators, g.indicator(d))
		}
	}
	for _, o := range g.Orbs {
		s.Orbs = append(s.Orbs, o.ToState())
	}
	for _, p := range g.fx.Particles {
		if g.camera.IsVisible(p.X, p.Y, margin) {
			s.Particles = append(s.Particles, p.ToState())
		}
	}
	return s
}

// indicator places an arrow on the screen edge pointing at d
func (g *Game) indicator(d *Drop) Indicator {
	c := g.camera
	sx, sy := c.WorldToScreen(d.X, d.Y)
	a := math.Atan2(sy-c.ViewH/2, sx-c.ViewW/2)
	return Indicator{
		X:     round1(Clamp(sx, indicatorPad, c.ViewW-indicatorPad)),
		Y:     round1(Clamp(sy, indicatorPad, c.ViewH-indicatorPad)),
		Angle: round1(a),
	}
}
