package game

const (
	TickRate = 60 // simulation frames per second

	WorldWidth    = 2400.0
	WorldHeight   = 2400.0
	SpawnDistance = 520.0
)

// Config holds every tuning value of a run. Durations are frames,
// speeds are pixels per frame.
type Config struct {
	Seed int64

	WorldWidth    float64
	WorldHeight   float64
	SpawnDistance float64

	// Player base stats and caps
	PlayerRadius      float64
	PlayerSpeed       float64
	PlayerMaxSpeed    float64
	FireRate          int
	MinFireRate       int
	BulletSpeed       float64
	MaxBulletSpeed    float64
	BulletSize        float64
	MaxBulletSize     float64
	WeaponRange       float64
	MaxWeaponRange    float64
	MagnetRange       float64
	MaxMagnetRange    float64
	ShieldDuration    int
	MaxShieldDuration int
	StartLives        int
	MaxLives          int
	VampiricKills     int

	// Orbs
	OrbRingCapacity  int
	MaxOrbs          int
	OrbSpeed         float64
	MaxOrbSpeed      float64
	OrbDamage        float64
	MaxOrbDamage     float64
	OrbRadius        float64
	OrbBaseDistance  float64
	OrbRingSpacing   float64
	OrbFireCooldown  int
	OrbFireRange     float64
	OrbHitCooldown   int
	OrbBulletSpeed   float64
	OrbBulletMaxDist float64

	// Weapons
	TripleSpread    float64
	PelletCount     int
	PelletSpread    float64
	PelletMaxDist   float64
	ShotgunEvery    int
	HomingEvery     int
	HomingTurnRate  float64
	ExplosiveEvery  int
	BlastRadius     float64
	ExplosiveDamage float64
	BasicDamage     float64
	PelletDamage    float64
	HomingDamage    float64

	// Economy
	BaseUpgradeCost  int
	CostMultiplier   float64
	LootChance       float64
	EliteLootChance  float64
	FallbackGems     int
	FillerGems       int
	GemMagnetSpeed   float64
	LootMagnetFactor float64
	LootMagnetForce  float64
	LootMagnetMaxSpd float64
	DropFriction     float64
	MaxResurrections int

	// Wave director
	ExemptFirstWave  bool
	SpawnDuration    int
	MaxBonusCycles   int
	StagnationFrames int
	AnnounceFrames   int
	TrickleSpawn     int

	// Combo
	ComboWindow  int
	ComboStep    int
	ComboMaxMult float64

	// State machine timers
	DeathFrames     int
	DeathTimeScale  float64
	ReviveClearDist float64

	// Camera
	ViewWidth       float64
	ViewHeight      float64
	CameraSmoothing float64
	ZoomSmoothing   float64
	DeathZoom       float64
	TeleportFrames  int
	SafeRadius      float64
	VisibleMargin   float64
}

// DefaultConfig returns the standard arena tuning
func DefaultConfig() Config {
	return Config{
		Seed: 1,

		WorldWidth:    WorldWidth,
		WorldHeight:   WorldHeight,
		SpawnDistance: SpawnDistance,

		PlayerRadius:      15,
		PlayerSpeed:       4,
		PlayerMaxSpeed:    8,
		FireRate:          18,
		MinFireRate:       8,
		BulletSpeed:       9,
		MaxBulletSpeed:    16,
		BulletSize:        4,
		MaxBulletSize:     9,
		WeaponRange:       420,
		MaxWeaponRange:    820,
		MagnetRange:       70,
		MaxMagnetRange:    220,
		ShieldDuration:    150,
		MaxShieldDuration: 330,
		StartLives:        3,
		MaxLives:          5,
		VampiricKills:     25,

		OrbRingCapacity:  6,
		MaxOrbs:          18,
		OrbSpeed:         0.035,
		MaxOrbSpeed:      0.11,
		OrbDamage:        1,
		MaxOrbDamage:     5,
		OrbRadius:        6,
		OrbBaseDistance:  45,
		OrbRingSpacing:   25,
		OrbFireCooldown:  60,
		OrbFireRange:     260,
		OrbHitCooldown:   20,
		OrbBulletSpeed:   7,
		OrbBulletMaxDist: 320,

		TripleSpread:    0.22,
		PelletCount:     5,
		PelletSpread:    0.5,
		PelletMaxDist:   220,
		ShotgunEvery:    3,
		HomingEvery:     2,
		HomingTurnRate:  0.09,
		ExplosiveEvery:  4,
		BlastRadius:     50,
		ExplosiveDamage: 3,
		BasicDamage:     1,
		PelletDamage:    0.5,
		HomingDamage:    1.5,

		BaseUpgradeCost:  10,
		CostMultiplier:   1.5,
		LootChance:       0.025,
		EliteLootChance:  0.07,
		FallbackGems:     10,
		FillerGems:       5,
		GemMagnetSpeed:   10,
		LootMagnetFactor: 0.6,
		LootMagnetForce:  0.15,
		LootMagnetMaxSpd: 4,
		DropFriction:     0.9,
		MaxResurrections: 1,

		SpawnDuration:    30,
		MaxBonusCycles:   6,
		StagnationFrames: 900,
		AnnounceFrames:   120,
		TrickleSpawn:     3,

		ComboWindow:  150,
		ComboStep:    5,
		ComboMaxMult: 4,

		DeathFrames:     90,
		DeathTimeScale:  0.3,
		ReviveClearDist: 300,

		ViewWidth:       1280,
		ViewHeight:      720,
		CameraSmoothing: 0.1,
		ZoomSmoothing:   0.06,
		DeathZoom:       1.35,
		TeleportFrames:  60,
		SafeRadius:      260,
		VisibleMargin:   40,
	}
}
