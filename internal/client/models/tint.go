package models

// Tint is an RGBA display color with components in [0, 1].
type Tint struct {
	Red     float64 `json:"red"`
	Green   float64 `json:"green"`
	Blue    float64 `json:"blue"`
	Opacity float64 `json:"opacity"`
}

// NewTint builds a Tint, clamping every component into [0, 1].
func NewTint(red, green, blue, opacity float64) Tint {
	return Tint{
		Red:     clamp01(red),
		Green:   clamp01(green),
		Blue:    clamp01(blue),
		Opacity: clamp01(opacity),
	}
}

func (t Tint) Valid() bool {
	for _, c := range []float64{t.Red, t.Green, t.Blue, t.Opacity} {
		if !(c >= 0 && c <= 1) {
			return false
		}
	}
	return true
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Named tints used by the built-in passes and by imports.
var (
	TintPurple = NewTint(0.686, 0.322, 0.871, 1)
	TintOrange = NewTint(1.0, 0.584, 0.0, 1)
	TintTeal   = NewTint(0.188, 0.690, 0.780, 1)
	TintIndigo = NewTint(0.345, 0.337, 0.839, 1)
	TintMint   = NewTint(0.0, 0.780, 0.745, 1)
)
