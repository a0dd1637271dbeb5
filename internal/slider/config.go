// Package slider maps drag gestures on a linear track to quantized values.
package slider

import (
	"fmt"
	"math"
)

// ConfigurationError reports an invalid slider configuration.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid slider config: %s %s", e.Field, e.Reason)
}

// Config describes the value domain and the track a slider travels along.
// TrackLength is zero until the host has laid the control out.
type Config struct {
	Min         float64
	Max         float64
	Step        float64
	TrackLength float64
}

// NewConfig validates and returns a config with no track length yet.
func NewConfig(minValue, maxValue, step float64) (Config, error) {
	cfg := Config{Min: minValue, Max: maxValue, Step: step}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config invariants.
func (c Config) Validate() error {
	if !finite(c.Min) {
		return &ConfigurationError{Field: "min", Reason: "must be finite"}
	}
	if !finite(c.Max) {
		return &ConfigurationError{Field: "max", Reason: "must be finite"}
	}
	if c.Min >= c.Max {
		return &ConfigurationError{Field: "min", Reason: fmt.Sprintf("must be less than max (%g >= %g)", c.Min, c.Max)}
	}
	if !finite(c.Step) || c.Step <= 0 {
		return &ConfigurationError{Field: "step", Reason: fmt.Sprintf("must be positive (got %g)", c.Step)}
	}
	if !finite(c.TrackLength) || c.TrackLength < 0 {
		return &ConfigurationError{Field: "track length", Reason: fmt.Sprintf("must be >= 0 (got %g)", c.TrackLength)}
	}
	return nil
}

// WithTrackLength returns a copy of the config for a new layout width.
// Negative lengths are treated as not laid out.
func (c Config) WithTrackLength(length float64) Config {
	if !finite(length) || length < 0 {
		length = 0
	}
	c.TrackLength = length
	return c
}

// ValueToPosition maps a value to an offset along the track. The result is
// proportional and not clamped.
func (c Config) ValueToPosition(value float64) float64 {
	return (value - c.Min) / (c.Max - c.Min) * c.TrackLength
}

// PositionToValue maps a track offset to a quantized value in [Min, Max].
func (c Config) PositionToValue(position float64) float64 {
	if c.TrackLength <= 0 {
		return c.Min
	}
	position = clamp(position, 0, c.TrackLength)
	raw := c.Min + position/c.TrackLength*(c.Max-c.Min)
	return c.Quantize(raw)
}

// Quantize snaps value to the nearest point of the step grid anchored at Min,
// rounding half away from zero, and clamps it to [Min, Max]. When Step does
// not divide the range, Max is an extra grid point after the last full step.
func (c Config) Quantize(value float64) float64 {
	value = clamp(value, c.Min, c.Max)
	last := c.Min + math.Floor((c.Max-c.Min)/c.Step+gridEpsilon)*c.Step
	if value > last && c.Max-value <= value-last {
		return c.Max
	}
	steps := math.Round((value - c.Min) / c.Step)
	return clamp(c.Min+steps*c.Step, c.Min, c.Max)
}

// gridEpsilon absorbs float error when checking whether Step divides the range.
const gridEpsilon = 1e-9

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
