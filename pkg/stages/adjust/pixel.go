package adjust

import (
	"math"

	"github.com/user/canvasfx/pkg/effects"
)

// Pixel holds the per-pixel color science parameters derived from the
// effects. Each step runs only when its value differs from neutral.
type Pixel struct {
	vibrance    float64
	exposure    float64
	temperature float64
	tint        float64

	doVibrance    bool
	doExposure    bool
	doTemperature bool
	doTint        bool
}

// NewPixel derives the pixel parameters. Highlights and shadows are
// accepted by the model but reserved: they do not alter pixels.
func NewPixel(e effects.ImageEffects) Pixel {
	return Pixel{
		vibrance:      (e.Vibrance - effects.NeutralVibrance) / 100,
		exposure:      (e.Exposure - effects.NeutralExposure) / 100,
		temperature:   e.Temperature / 100,
		tint:          e.Tint / 100,
		doVibrance:    e.Vibrance != effects.NeutralVibrance,
		doExposure:    e.Exposure != effects.NeutralExposure,
		doTemperature: e.Temperature != effects.NeutralTemperature,
		doTint:        e.Tint != effects.NeutralTint,
	}
}

// Apply runs vibrance, exposure, temperature and tint on one pixel, in
// that order, then clamps and rounds the channels.
func (p Pixel) Apply(r8, g8, b8 uint8) (uint8, uint8, uint8) {
	r, g, b := float64(r8), float64(g8), float64(b8)

	if p.doVibrance {
		hi := math.Max(r, math.Max(g, b))
		lo := math.Min(r, math.Min(g, b))
		if hi-lo > 0 {
			gray := (r + g + b) / 3
			r += (r - gray) * p.vibrance
			g += (g - gray) * p.vibrance
			b += (b - gray) * p.vibrance
		}
	}

	if p.doExposure {
		k := 1 + p.exposure
		r = math.Min(255, r*k)
		g = math.Min(255, g*k)
		b = math.Min(255, b*k)
	}

	if p.doTemperature {
		r = math.Min(255, r+p.temperature*20)
		b = math.Min(255, b-p.temperature*20)
	}

	if p.doTint {
		g = math.Min(255, g+p.tint*20)
		r = math.Min(255, r-p.tint*10)
		b = math.Min(255, b-p.tint*10)
	}

	return channel(r), channel(g), channel(b)
}

// channel clamps to [0, 255] and rounds half to even, as a clamped byte
// array store does.
func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
