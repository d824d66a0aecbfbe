package game

// Snapshot types are read-only copies of the simulation handed to the
// renderer. Short tags keep the binary frames small.

// EnemyState is the render view of an enemy
type EnemyState struct {
	ID     uint32  `msgpack:"id" json:"id"`
	Type   uint8   `msgpack:"t" json:"t"`
	X      float64 `msgpack:"x" json:"x"`
	Y      float64 `msgpack:"y" json:"y"`
	R      float64 `msgpack:"r" json:"r"`
	Rot    float64 `msgpack:"rot" json:"rot"`
	HP     float64 `msgpack:"hp" json:"hp"`
	MaxHP  float64 `msgpack:"mhp" json:"mhp"`
	Scale  float64 `msgpack:"s" json:"s"`
	Flash  bool    `msgpack:"f,omitempty" json:"f,omitempty"`
	Wobble float64 `msgpack:"w" json:"w"`
}

// BulletState is the render view of a bullet
type BulletState struct {
	Type uint8   `msgpack:"t" json:"t"`
	X    float64 `msgpack:"x" json:"x"`
	Y    float64 `msgpack:"y" json:"y"`
	A    float64 `msgpack:"a" json:"a"`
	R    float64 `msgpack:"r" json:"r"`
	L    float64 `msgpack:"l" json:"l"`
}

// DropState is the render view of a gem or loot box
type DropState struct {
	Kind  uint8   `msgpack:"k" json:"k"`
	X     float64 `msgpack:"x" json:"x"`
	Y     float64 `msgpack:"y" json:"y"`
	Value int     `msgpack:"v,omitempty" json:"v,omitempty"`
	Loot  uint8   `msgpack:"lt,omitempty" json:"lt,omitempty"`
	C1    string  `msgpack:"c1" json:"c1"`
	C2    string  `msgpack:"c2" json:"c2"`
	Pulse float64 `msgpack:"p,omitempty" json:"p,omitempty"`
}

// OrbState is the render view of an orb
type OrbState struct {
	X     float64 `msgpack:"x" json:"x"`
	Y     float64 `msgpack:"y" json:"y"`
	Ring  uint8   `msgpack:"ring" json:"ring"`
	Armed bool    `msgpack:"a,omitempty" json:"a,omitempty"`
}

// ParticleState is the render view of a particle
type ParticleState struct {
	X float64 `msgpack:"x" json:"x"`
	Y float64 `msgpack:"y" json:"y"`
	S float64 `msgpack:"s" json:"s"`
	A float64 `msgpack:"a" json:"a"`
	C string  `msgpack:"c" json:"c"`
}

// PlayerState is the render view of the player
type PlayerState struct {
	X       float64 `msgpack:"x" json:"x"`
	Y       float64 `msgpack:"y" json:"y"`
	R       float64 `msgpack:"r" json:"r"`
	A       float64 `msgpack:"a" json:"a"`
	Invuln  bool    `msgpack:"inv,omitempty" json:"inv,omitempty"`
	Weapons uint8   `msgpack:"wp" json:"wp"`
	Orbs    int     `msgpack:"orbs" json:"orbs"`
	GemMul  int     `msgpack:"gm" json:"gm"`
}

// CameraState is the camera transform the renderer applies
type CameraState struct {
	X    float64 `msgpack:"x" json:"x"`
	Y    float64 `msgpack:"y" json:"y"`
	Zoom float64 `msgpack:"z" json:"z"`
}

// Indicator points at an off-screen loot box from the screen edge
type Indicator struct {
	X     float64 `msgpack:"x" json:"x"`
	Y     float64 `msgpack:"y" json:"y"`
	Angle float64 `msgpack:"a" json:"a"`
}

// Snapshot is one full render frame
type Snapshot struct {
	Mode           string          `msgpack:"m" json:"m"`
	Frame          uint64          `msgpack:"f" json:"f"`
	Score          int             `msgpack:"sc" json:"sc"`
	Wave           int             `msgpack:"wv" json:"wv"`
	Bonus          bool            `msgpack:"bn,omitempty" json:"bn,omitempty"`
	Lives          int             `msgpack:"lv" json:"lv"`
	Gems           int             `msgpack:"g" json:"g"`
	GemsForUpgrade int             `msgpack:"gu" json:"gu"`
	Kills          int             `msgpack:"k" json:"k"`
	Combo          int             `msgpack:"c" json:"c"`
	ComboMult      float64         `msgpack:"cm" json:"cm"`
	Time           string          `msgpack:"tm" json:"tm"`
	Camera         CameraState     `msgpack:"cam" json:"cam"`
	Player         PlayerState     `msgpack:"p" json:"p"`
	Enemies        []EnemyState    `msgpack:"e" json:"e"`
	Bullets        []BulletState   `msgpack:"b" json:"b"`
	Drops          []DropState     `msgpack:"d" json:"d"`
	Orbs           []OrbState      `msgpack:"o" json:"o"`
	Particles      []ParticleState `msgpack:"pt" json:"pt"`
	Indicators     []Indicator     `msgpack:"ind,omitempty" json:"ind,omitempty"`
	Options        []Option        `msgpack:"opt,omitempty" json:"opt,omitempty"`
}
