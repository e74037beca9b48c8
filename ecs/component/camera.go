package component

// Camera is the view resource. X and Y are the world point shown at the
// screen center.
type Camera struct {
	X    float64
	Y    float64
	Zoom float64
}

// ToScreen maps a y-up world point onto a y-down screen of the given size.
func (c Camera) ToScreen(x, y, screenW, screenH float64) (float64, float64) {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return screenW/2 + (x-c.X)*zoom, screenH/2 - (y-c.Y)*zoom
}

func (c Camera) ZoomOrDefault() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}
