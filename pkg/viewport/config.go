package viewport

import (
	"time"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Defaults for [Config].
const (
	DefaultMinZoom           = 0.1
	DefaultMaxZoom           = 2.0
	DefaultZoomStep          = 0.1
	DefaultInitialZoom       = 1.0
	DefaultAnimationDuration = 500 * time.Millisecond
	DefaultWheelSensitivity  = 0.001
)

// Config holds the externally configurable constants of the controller.
type Config struct {
	MinZoom  float64 `toml:"min_zoom"`
	MaxZoom  float64 `toml:"max_zoom"`
	ZoomStep float64 `toml:"zoom_step"`

	InitialZoom     float64 `toml:"initial_zoom"`
	InitialPosition Point   `toml:"initial_position"`

	// FitZoom and FitPosition are the fit-to-view target.
	FitZoom     float64 `toml:"fit_zoom"`
	FitPosition Point   `toml:"fit_position"`

	// AnimationDuration of the fit-to-view tween. Zero or negative snaps.
	AnimationDuration time.Duration `toml:"animation_duration"`

	// WheelSensitivity scales wheel deltas into zoom deltas.
	WheelSensitivity float64 `toml:"wheel_sensitivity"`
}

// DefaultConfig returns the reference configuration. The fit-to-view target
// equals the initial transform.
func DefaultConfig() Config {
	return Config{
		MinZoom:           DefaultMinZoom,
		MaxZoom:           DefaultMaxZoom,
		ZoomStep:          DefaultZoomStep,
		InitialZoom:       DefaultInitialZoom,
		FitZoom:           DefaultInitialZoom,
		AnimationDuration: DefaultAnimationDuration,
		WheelSensitivity:  DefaultWheelSensitivity,
	}
}

// Validate checks that the zoom range is usable.
func (c Config) Validate() error {
	if c.MinZoom <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min zoom must be positive, got %v", c.MinZoom)
	}
	if c.MaxZoom < c.MinZoom {
		return errors.New(errors.ErrCodeInvalidConfig, "max zoom %v is below min zoom %v", c.MaxZoom, c.MinZoom)
	}
	if c.ZoomStep <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "zoom step must be positive, got %v", c.ZoomStep)
	}
	if c.WheelSensitivity < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "wheel sensitivity cannot be negative")
	}
	return nil
}

// Clamp limits z to the configured zoom range.
func (c Config) Clamp(z float64) float64 {
	return min(max(z, c.MinZoom), c.MaxZoom)
}
