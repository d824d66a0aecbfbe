package game

// Sound effect names handed to the audio collaborator
const (
	SfxShoot     = "shoot"
	SfxHit       = "hit"
	SfxExplosion = "explosion"
	SfxKill      = "kill"
	SfxGem       = "gem"
	SfxLootBox   = "lootbox"
	SfxUpgrade   = "upgrade"
	SfxPlayerHit = "player_hit"
	SfxWave      = "wave"
	SfxTeleport  = "teleport"
	SfxRevive    = "revive"
	SfxGameOver  = "game_over"
	SfxNuke      = "nuke"
)

// Audio receives fire-and-forget sound cues. Implementations must not
// block; panics are swallowed by the game.
type Audio interface {
	PlayEffect(name string)
}

type nopAudio struct{}

func (nopAudio) PlayEffect(string) {}

// EventType names a notification for the UI collaborator
type EventType string

const (
	EventRunStarted    EventType = "run_started"
	EventWaveComplete  EventType = "wave_complete"
	EventWaveStarted   EventType = "wave_started"
	EventBonusWave     EventType = "bonus_wave"
	EventUpgradeReady  EventType = "upgrade_ready"
	EventUpgradePicked EventType = "upgrade_picked"
	EventLootOpened    EventType = "loot_opened"
	EventLifeLost      EventType = "life_lost"
	EventLifeGained    EventType = "life_gained"
	EventReviveOffered EventType = "revive_offered"
	EventRevived       EventType = "revived"
	EventGameOver      EventType = "game_over"
)

// Event is one queued notification with an optional detail string
type Event struct {
	Type   EventType
	Detail string
	Wave   int
}
