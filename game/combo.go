package game

// Combo tracks the consecutive-kill streak and its score multiplier
type Combo struct {
	Count      int
	Timer      int
	Multiplier float64
	Best       int

	window  int
	step    int
	maxMult float64
}

// NewCombo creates an empty combo with the given decay window
func NewCombo(window, step int, maxMult float64) Combo {
	if step < 1 {
		step = 1
	}
	return Combo{Multiplier: 1, window: window, step: step, maxMult: maxMult}
}

// Kill registers a kill and returns the score awarded for points
func (c *Combo) Kill(points int) int {
	c.Count++
	c.Timer = c.window
	if c.Count > c.Best {
		c.Best = c.Count
	}
	c.Multiplier = 1 + 0.5*float64(c.Count/c.step)
	if c.Multiplier > c.maxMult {
		c.Multiplier = c.maxMult
	}
	return int(float64(points) * c.Multiplier)
}

// Tick decays the combo window by one frame
func (c *Combo) Tick() {
	if c.Timer <= 0 {
		return
	}
	c.Timer--
	if c.Timer == 0 {
		c.Reset()
	}
}

// Reset zeroes the streak, keeping the best
func (c *Combo) Reset() {
	c.Count = 0
	c.Timer = 0
	c.Multiplier = 1
}
