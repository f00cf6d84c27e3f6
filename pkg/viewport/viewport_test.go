package viewport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
)

func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.5, 0.875},
		{1, 1},
		{-1, 0},
		{2, 1},
	}
	for _, tt := range tests {
		if got := EaseOutCubic(tt.in); got != tt.want {
			t.Errorf("EaseOutCubic(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTransform(t *testing.T) {
	s := State{Zoom: 0.5, Position: Point{X: 10, Y: -20}}
	tr := s.Transform()
	assert.Equal(t, "translate(10 -20) scale(0.5)", tr.SVG())

	p := Point{X: 100, Y: 300}
	screen := tr.Apply(p)
	assert.Equal(t, Point{X: 60, Y: 130}, screen)
	assert.Equal(t, p, tr.Invert(screen))
	assert.Equal(t, Point{}, Transform{}.Invert(p))
}

func TestFitTransform(t *testing.T) {
	cfg := DefaultConfig()
	bounds := layout.Bounds{MinX: -290, MinY: 0, MaxX: 290, MaxY: 440}

	zoom, pos := FitTransform(cfg, bounds, 800, 600, 20)
	assert.InDelta(t, 560.0/440, zoom, 1e-12)

	center := Transform{Scale: zoom, Translate: pos}.Apply(Point{X: 0, Y: 220})
	assert.InDelta(t, 400, center.X, 1e-9)
	assert.InDelta(t, 300, center.Y, 1e-9)

	// A tiny chart is capped at MaxZoom.
	zoom, _ = FitTransform(cfg, layout.Bounds{MaxX: 10, MaxY: 10}, 800, 600, 0)
	assert.Equal(t, cfg.MaxZoom, zoom)

	// Empty bounds center the origin at zoom 1.
	zoom, pos = FitTransform(cfg, layout.Bounds{}, 800, 600, 0)
	assert.Equal(t, 1.0, zoom)
	assert.Equal(t, Point{X: 400, Y: 300}, pos)
}

func TestFrameBounds(t *testing.T) {
	h := newHarness(DefaultConfig())
	bounds := layout.Bounds{MinX: 0, MinY: 0, MaxX: 1600, MaxY: 1200}
	h.c.FrameBounds(bounds, 800, 600, 0)
	h.frame(time.Second)
	assert.Equal(t, 0.5, h.c.State().Zoom)
	assert.Equal(t, Point{X: 0, Y: 0}, h.c.State().Position)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min", func(c *Config) { c.MinZoom = 0 }},
		{"inverted range", func(c *Config) { c.MaxZoom = 0.05 }},
		{"zero step", func(c *Config) { c.ZoomStep = 0 }},
		{"negative sensitivity", func(c *Config) { c.WheelSensitivity = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestFrameLoop(t *testing.T) {
	loop := NewFrameLoop(nil)
	var ran []int

	a := loop.RequestFrame(func(time.Time) { ran = append(ran, 1) })
	loop.RequestFrame(func(time.Time) {
		ran = append(ran, 2)
		loop.RequestFrame(func(time.Time) { ran = append(ran, 3) })
	})
	loop.CancelFrame(a)
	loop.CancelFrame(999)

	assert.Equal(t, 1, loop.Flush(t0))
	assert.Equal(t, []int{2}, ran)
	assert.Equal(t, 1, loop.Pending(), "frames requested during a flush wait for the next")
	assert.Equal(t, t0, loop.LastFrame())

	loop.Flush(t0)
	assert.Equal(t, []int{2, 3}, ran)
}

func TestFrameLoopCancelDuringFlush(t *testing.T) {
	loop := NewFrameLoop(nil)
	var second FrameID
	ranSecond := false
	loop.RequestFrame(func(time.Time) { loop.CancelFrame(second) })
	second = loop.RequestFrame(func(time.Time) { ranSecond = true })

	assert.Equal(t, 1, loop.Flush(t0))
	assert.False(t, ranSecond)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "animating", Animating.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}
