package camera

import (
	gomath "math"
	"testing"
)

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{gomath.Pi, gomath.Pi},
		{2 * gomath.Pi, 0},
		{-gomath.Pi / 2, 3 * gomath.Pi / 2},
		{-2 * gomath.Pi, 0},
		{5 * gomath.Pi, gomath.Pi},
		{-7 * gomath.Pi / 2, gomath.Pi / 2},
	}
	for _, tt := range tests {
		got := NormalizeHeading(tt.in)
		if gomath.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeHeading(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeHeadingRange(t *testing.T) {
	inputs := []float64{-1e9, -1e3, -12.5, -1e-12, 0, 1e-12, 6.283185307179586, 7, 1e3, 1e9,
		gomath.NaN(), gomath.Inf(1), gomath.Inf(-1)}
	for _, in := range inputs {
		got := NormalizeHeading(in)
		if got < 0 || got >= 2*gomath.Pi {
			t.Errorf("NormalizeHeading(%v) = %v, outside [0, 2pi)", in, got)
		}
	}
}

func TestSetElevationClamps(t *testing.T) {
	c := NewPanoramaCamera()

	c.SetElevation(10)
	if c.Elevation != DefaultMaxElevation {
		t.Errorf("expected clamp to %v, got %v", DefaultMaxElevation, c.Elevation)
	}
	c.SetElevation(-10)
	if c.Elevation != DefaultMinElevation {
		t.Errorf("expected clamp to %v, got %v", DefaultMinElevation, c.Elevation)
	}
	c.SetElevation(0.3)
	if c.Elevation != 0.3 {
		t.Errorf("expected 0.3, got %v", c.Elevation)
	}
	c.SetElevation(gomath.NaN())
	if c.Elevation != 0.3 {
		t.Errorf("NaN should keep 0.3, got %v", c.Elevation)
	}
	c.SetElevation(gomath.Inf(1))
	if c.Elevation != DefaultMaxElevation {
		t.Errorf("+Inf should clamp to %v, got %v", DefaultMaxElevation, c.Elevation)
	}
}

func TestTurnNaNElevation(t *testing.T) {
	c := NewPanoramaCamera()
	c.SetElevation(-0.2)
	c.Turn(0, gomath.NaN())
	if c.Elevation != -0.2 {
		t.Fatalf("elevation = %v after NaN delta, want -0.2", c.Elevation)
	}
	c.Turn(0, 0.1)
	if gomath.Abs(c.Elevation+0.1) > 1e-12 {
		t.Errorf("elevation = %v, want -0.1", c.Elevation)
	}
}

func TestTurn(t *testing.T) {
	c := NewPanoramaCamera()
	c.Turn(-gomath.Pi/2, 5)

	if gomath.Abs(c.Heading-3*gomath.Pi/2) > 1e-9 {
		t.Errorf("heading = %v, want 3pi/2", c.Heading)
	}
	if c.Elevation != c.MaxElevation {
		t.Errorf("elevation = %v, want %v", c.Elevation, c.MaxElevation)
	}
}

func TestSetLimits(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		ok       bool
	}{
		{"valid", -0.5, 0.5, true},
		{"min zero", 0, 0.5, false},
		{"min at -pi/2", -gomath.Pi / 2, 0.5, false},
		{"max zero", -0.5, 0, false},
		{"max at pi/2", -0.5, gomath.Pi / 2, false},
		{"swapped", 0.5, -0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewPanoramaCamera()
			if got := c.SetLimits(tt.min, tt.max); got != tt.ok {
				t.Fatalf("SetLimits(%v, %v) = %v, want %v", tt.min, tt.max, got, tt.ok)
			}
			if !tt.ok && (c.MinElevation != DefaultMinElevation || c.MaxElevation != DefaultMaxElevation) {
				t.Error("rejected limits must leave previous limits unchanged")
			}
		})
	}
}

func TestSetLimitsReclamps(t *testing.T) {
	c := NewPanoramaCamera()
	c.SetElevation(0.9)
	c.SetLimits(-0.2, 0.2)
	if c.Elevation != 0.2 {
		t.Errorf("elevation = %v, want 0.2 after tightening limits", c.Elevation)
	}
}

func TestRelativeHeading(t *testing.T) {
	tests := []struct {
		heading, target, want float64
	}{
		{0, gomath.Pi / 2, gomath.Pi / 2},
		{0, 3 * gomath.Pi / 2, -gomath.Pi / 2},
		{3 * gomath.Pi / 2, 0, gomath.Pi / 2},
		{0, gomath.Pi, gomath.Pi},
	}
	for _, tt := range tests {
		got := RelativeHeading(tt.heading, tt.target)
		if gomath.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RelativeHeading(%v, %v) = %v, want %v", tt.heading, tt.target, got, tt.want)
		}
	}
}
