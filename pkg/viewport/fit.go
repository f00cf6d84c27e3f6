package viewport

import "github.com/matzehuels/orgchart/pkg/layout"

// FitTransform returns the zoom and position that center bounds inside a
// surface of the given size, leaving padding pixels on each side. The zoom
// is clamped to the configured range, so a very large chart may still
// overflow the surface. Empty bounds are centered at zoom 1 (clamped).
func FitTransform(cfg Config, bounds layout.Bounds, width, height, padding float64) (float64, Point) {
	zoom := 1.0
	if !bounds.IsEmpty() {
		availW := max(width-2*padding, 1)
		availH := max(height-2*padding, 1)
		zoom = min(availW/bounds.Width(), availH/bounds.Height())
	}
	zoom = cfg.Clamp(zoom)
	return zoom, Point{
		X: width/2 - bounds.CenterX()*zoom,
		Y: height/2 - bounds.CenterY()*zoom,
	}
}

// FrameBounds animates the controller so that bounds fills the surface.
func (c *Controller) FrameBounds(bounds layout.Bounds, width, height, padding float64) bool {
	zoom, pos := FitTransform(c.cfg, bounds, width, height, padding)
	return c.AnimateTo(zoom, pos)
}
