package viewport

import "time"

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Modifiers is the set of modifier keys held during an input event.
type Modifiers struct {
	Ctrl, Meta, Alt, Shift bool
}

// command reports whether the platform zoom modifier (Ctrl or Cmd) is held.
func (m Modifiers) command() bool { return m.Ctrl || m.Meta }

// Controller is the viewport state machine. The zero value is not usable;
// create one with New.
type Controller struct {
	cfg   Config
	sched Scheduler

	zoom     float64
	position Point
	phase    Phase

	dragOffset Point
	anim       tween

	pending    FrameID
	hasPending bool
	unmounted  bool

	onChange func(State)
}

type tween struct {
	start            time.Time
	duration         time.Duration
	fromZoom, toZoom float64
	fromPos, toPos   Point
}

// New returns an idle controller at the configured initial zoom (clamped)
// and position.
func New(cfg Config, sched Scheduler) *Controller {
	return &Controller{
		cfg:      cfg,
		sched:    sched,
		zoom:     cfg.Clamp(cfg.InitialZoom),
		position: cfg.InitialPosition,
	}
}

// OnChange registers fn to be called after every committed state change.
func (c *Controller) OnChange(fn func(State)) { c.onChange = fn }

// Config returns the controller configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns a snapshot of the viewport.
func (c *Controller) State() State {
	return State{
		Zoom:        c.zoom,
		Position:    c.position,
		IsDragging:  c.phase == Dragging,
		IsAnimating: c.phase == Animating,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Transform returns the current translate+scale transform.
func (c *Controller) Transform() Transform { return c.State().Transform() }

// HasPendingFrame reports whether a frame callback is queued.
func (c *Controller) HasPendingFrame() bool { return c.hasPending }

// =============================================================================
// Drag
// =============================================================================

// PointerDown starts a drag on a primary-button press. It is ignored for
// other buttons, while animating and after Unmount.
func (c *Controller) PointerDown(b Button, p Point) bool {
	if c.unmounted || b != ButtonPrimary || c.phase == Animating {
		return false
	}
	c.cancelPending()
	c.dragOffset = p.Sub(c.position)
	c.phase = Dragging
	c.notify()
	return true
}

// PointerMove schedules the drag position for p. Only the latest move
// before a frame is applied.
func (c *Controller) PointerMove(p Point) bool {
	if c.phase != Dragging {
		return false
	}
	next := p.Sub(c.dragOffset)
	c.schedule(func(time.Time) {
		c.position = next
		c.notify()
	})
	return true
}

// PointerUp ends a drag and drops any uncommitted move.
func (c *Controller) PointerUp() bool { return c.endDrag() }

// PointerLeave ends a drag when the pointer leaves the tracked surface.
func (c *Controller) PointerLeave() bool { return c.endDrag() }

func (c *Controller) endDrag() bool {
	if c.phase != Dragging {
		return false
	}
	c.cancelPending()
	c.phase = Idle
	c.notify()
	return true
}

// =============================================================================
// Zoom
// =============================================================================

// Wheel zooms by -deltaY*WheelSensitivity when Ctrl or Cmd is held; plain
// wheel events are left to the host.
func (c *Controller) Wheel(deltaY float64, mods Modifiers) bool {
	if c.unmounted || !mods.command() {
		return false
	}
	c.zoomBy(-deltaY * c.cfg.WheelSensitivity)
	return true
}

// Key handles the zoom shortcuts: Ctrl/Cmd with "=" or "+" zooms in, with
// "-" zooms out, with "0" resets zoom to 1. It reports whether the key was
// consumed.
func (c *Controller) Key(key string, mods Modifiers) bool {
	if c.unmounted || !mods.command() {
		return false
	}
	switch key {
	case "=", "+":
		c.zoomBy(c.cfg.ZoomStep)
	case "-":
		c.zoomBy(-c.cfg.ZoomStep)
	case "0":
		c.SetZoom(1)
	default:
		return false
	}
	return true
}

// ZoomIn is the zoom-in button. No-op while animating.
func (c *Controller) ZoomIn() bool {
	if c.phase == Animating {
		return false
	}
	return c.zoomBy(c.cfg.ZoomStep)
}

// ZoomOut is the zoom-out button. No-op while animating.
func (c *Controller) ZoomOut() bool {
	if c.phase == Animating {
		return false
	}
	return c.zoomBy(-c.cfg.ZoomStep)
}

// SetZoom sets the zoom, clamped to the configured range. A running
// animation is stopped where it is, so the new zoom is not overwritten by
// the next tween frame. Wheel and keyboard zoom go through here.
func (c *Controller) SetZoom(z float64) bool {
	if c.unmounted {
		return false
	}
	if c.phase == Animating {
		c.cancelPending()
		c.phase = Idle
	}
	c.zoom = c.cfg.Clamp(z)
	c.notify()
	return true
}

func (c *Controller) zoomBy(delta float64) bool {
	return c.SetZoom(c.zoom + delta)
}

// =============================================================================
// Pan
// =============================================================================

// SetPosition moves the chart to p immediately. Ignored while dragging or
// animating, where the position is owned by the gesture or the tween.
func (c *Controller) SetPosition(p Point) bool {
	if c.unmounted || c.phase != Idle {
		return false
	}
	c.position = p
	c.notify()
	return true
}

// PanBy shifts the chart by d. Same rules as SetPosition.
func (c *Controller) PanBy(d Point) bool {
	return c.SetPosition(c.position.Add(d))
}

// =============================================================================
// Animation
// =============================================================================

// FitToView animates to the configured fit target.
func (c *Controller) FitToView() bool {
	return c.AnimateTo(c.cfg.FitZoom, c.cfg.FitPosition)
}

// Reset animates back to the initial zoom and position.
func (c *Controller) Reset() bool {
	return c.AnimateTo(c.cfg.InitialZoom, c.cfg.InitialPosition)
}

// AnimateTo tweens zoom and position to the target over the configured
// duration with a cubic ease-out, then snaps exactly to the target. It can
// be called from any phase: it cancels the pending frame, ends a drag and
// replaces a running animation.
func (c *Controller) AnimateTo(zoom float64, position Point) bool {
	if c.unmounted {
		return false
	}
	c.cancelPending()
	c.anim = tween{
		start:    c.sched.Now(),
		duration: c.cfg.AnimationDuration,
		fromZoom: c.zoom,
		toZoom:   c.cfg.Clamp(zoom),
		fromPos:  c.position,
		toPos:    position,
	}
	c.phase = Animating
	if c.anim.duration <= 0 {
		c.finish()
		return true
	}
	c.notify()
	c.schedule(c.tick)
	return true
}

func (c *Controller) tick(now time.Time) {
	a := c.anim
	progress := float64(now.Sub(a.start)) / float64(a.duration)
	if progress >= 1 {
		c.finish()
		return
	}
	t := EaseOutCubic(progress)
	c.zoom = c.cfg.Clamp(lerp(a.fromZoom, a.toZoom, t))
	c.position = Point{lerp(a.fromPos.X, a.toPos.X, t), lerp(a.fromPos.Y, a.toPos.Y, t)}
	c.notify()
	c.schedule(c.tick)
}

// finish snaps to the tween target and returns to idle.
func (c *Controller) finish() {
	c.zoom = c.anim.toZoom
	c.position = c.anim.toPos
	c.phase = Idle
	c.notify()
}

// =============================================================================
// Lifecycle
// =============================================================================

// Unmount cancels any pending frame and returns to idle. Afterwards every
// input is ignored.
func (c *Controller) Unmount() {
	c.cancelPending()
	c.phase = Idle
	c.unmounted = true
}

func (c *Controller) schedule(fn func(time.Time)) {
	c.cancelPending()
	var id FrameID
	id = c.sched.RequestFrame(func(now time.Time) {
		if c.hasPending && c.pending == id {
			c.hasPending = false
		}
		fn(now)
	})
	c.pending = id
	c.hasPending = true
}

func (c *Controller) cancelPending() {
	if !c.hasPending {
		return
	}
	c.sched.CancelFrame(c.pending)
	c.hasPending = false
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange(c.State())
	}
}
