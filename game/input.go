package game

// Key bits of the pressed-key set
const (
	KeyUp    uint8 = 1 << 0
	KeyDown  uint8 = 1 << 1
	KeyLeft  uint8 = 1 << 2
	KeyRight uint8 = 1 << 3
)

// Input is one frame's sampled input: pressed keys and the pointer in
// screen space. The core never reads device events directly.
type Input struct {
	Keys     uint8
	PointerX float64
	PointerY float64
}

// Direction returns the unnormalized movement vector for the held keys
func (in Input) Direction() (float64, float64) {
	var dx, dy float64
	if in.Keys&KeyUp != 0 {
		dy--
	}
	if in.Keys&KeyDown != 0 {
		dy++
	}
	if in.Keys&KeyLeft != 0 {
		dx--
	}
	if in.Keys&KeyRight != 0 {
		dx++
	}
	return dx, dy
}
