package models

import "math"

// CropRect is a sub-region of the minimap, each component normalized to [0,1]
// of the displayed minimap bounds, with a top-left origin.
type CropRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// NormalizeDrag turns a pointer drag (start point plus signed extent, already
// divided by the display size) into a top-left-origin rectangle with
// non-negative size and every component clamped to [0,1].
func NormalizeDrag(x, y, w, h float64) CropRect {
	return CropRect{
		X: clamp01(math.Min(x, x+w)),
		Y: clamp01(math.Min(y, y+h)),
		W: clamp01(math.Abs(w)),
		H: clamp01(math.Abs(h)),
	}
}

// Normalized applies NormalizeDrag to r.
func (r CropRect) Normalized() CropRect {
	return NormalizeDrag(r.X, r.Y, r.W, r.H)
}

// Empty reports whether the rectangle has no area.
func (r CropRect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
