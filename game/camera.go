package game

// Camera follows the player with exponential smoothing and can be
// overridden by an eased teleport.
type Camera struct {
	X, Y       float64
	Zoom       float64
	TargetZoom float64
	ViewW      float64
	ViewH      float64

	smoothing     float64
	zoomSmoothing float64

	teleporting bool
	tpStartX    float64
	tpStartY    float64
	tpTargetX   float64
	tpTargetY   float64
	tpFrame     int
	tpFrames    int

	// followLock suppresses following until Release is called
	followLock bool
}

// NewCamera creates a camera centred on (x, y)
func NewCamera(x, y float64, cfg *Config) *Camera {
	return &Camera{
		X:             x,
		Y:             y,
		Zoom:          1,
		TargetZoom:    1,
		ViewW:         cfg.ViewWidth,
		ViewH:         cfg.ViewHeight,
		smoothing:     cfg.CameraSmoothing,
		zoomSmoothing: cfg.ZoomSmoothing,
	}
}

// Follow eases the camera toward the target. No-op while teleporting or
// follow-locked.
func (c *Camera) Follow(tx, ty float64) {
	c.Zoom += (c.TargetZoom - c.Zoom) * c.zoomSmoothing
	if c.teleporting || c.followLock {
		return
	}
	c.X += (tx - c.X) * c.smoothing
	c.Y += (ty - c.Y) * c.smoothing
}

// StartTeleport begins an eased move to (tx, ty) over frames
func (c *Camera) StartTeleport(tx, ty float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	c.teleporting = true
	c.tpStartX, c.tpStartY = c.X, c.Y
	c.tpTargetX, c.tpTargetY = tx, ty
	c.tpFrame = 0
	c.tpFrames = frames
}

// UpdateTeleport advances the teleport by one frame and returns its
// progress in [0,1]. On completion the camera lands exactly on the
// target and raises the follow lock.
func (c *Camera) UpdateTeleport() float64 {
	if !c.teleporting {
		return 1
	}
	c.tpFrame++
	t := float64(c.tpFrame) / float64(c.tpFrames)
	if t >= 1 {
		c.X, c.Y = c.tpTargetX, c.tpTargetY
		c.teleporting = false
		c.followLock = true
		return 1
	}
	e := EaseInOutCubic(t)
	c.X = c.tpStartX + (c.tpTargetX-c.tpStartX)*e
	c.Y = c.tpStartY + (c.tpTargetY-c.tpStartY)*e
	return t
}

// Teleporting reports whether an eased move is in flight
func (c *Camera) Teleporting() bool {
	return c.teleporting
}

// Locked reports whether following is suppressed
func (c *Camera) Locked() bool {
	return c.followLock
}

// Release drops the follow lock
func (c *Camera) Release() {
	c.followLock = false
}

// SnapTo places the camera immediately
func (c *Camera) SnapTo(x, y float64) {
	c.X, c.Y = x, y
}

// SetViewport updates the screen size used by the transforms
func (c *Camera) SetViewport(w, h float64) {
	if w > 0 && h > 0 {
		c.ViewW, c.ViewH = w, h
	}
}

// ScreenToWorld converts a screen-space point to world space
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	z := c.zoom()
	return (sx-c.ViewW/2)/z + c.X, (sy-c.ViewH/2)/z + c.Y
}

// WorldToScreen converts a world-space point to screen space
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	z := c.zoom()
	return (wx-c.X)*z + c.ViewW/2, (wy-c.Y)*z + c.ViewH/2
}

// IsVisible reports whether a world point lies on screen within margin
func (c *Camera) IsVisible(wx, wy, margin float64) bool {
	sx, sy := c.WorldToScreen(wx, wy)
	return sx >= -margin && sx <= c.ViewW+margin && sy >= -margin && sy <= c.ViewH+margin
}

func (c *Camera) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}
