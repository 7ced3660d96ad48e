package effects

import (
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ResolveColor converts a color string to an NRGBA with the given alpha in [0, 1].
//
// Six-digit hex values (with or without '#') take the requested alpha.
// Anything else is handed on the way a canvas fill style would read it: CSS
// color names resolve at full alpha. Unparsable strings yield transparent
// and ok=false; they never cause an error.
func ResolveColor(s string, alpha float64) (c color.NRGBA, ok bool) {
	s = strings.TrimSpace(s)
	if hex, isHex := normalizeHex(s); isHex {
		col, err := colorful.Hex(hex)
		if err == nil {
			r, g, b := col.RGB255()
			return color.NRGBA{R: r, G: g, B: b, A: alphaByte(alpha)}, true
		}
	}
	if named, found := colornames.Map[strings.ToLower(s)]; found {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: 255}, true
	}
	return color.NRGBA{}, false
}

// MustColor resolves s at the given alpha, returning transparent when s is unparsable.
func MustColor(s string, alpha float64) color.NRGBA {
	c, _ := ResolveColor(s, alpha)
	return c
}

// ColorOr returns s when it is non-empty and fallback otherwise.
func ColorOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// LerpColor interpolates between two colors in RGB space. Alpha is
// interpolated linearly alongside.
func LerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	t = math.Max(0, math.Min(1, t))
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(math.Round(alpha))}
}

func normalizeHex(s string) (string, bool) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return "", false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return "", false
		}
	}
	return "#" + strings.ToLower(h), true
}

func alphaByte(alpha float64) uint8 {
	if math.IsNaN(alpha) || alpha <= 0 {
		return 0
	}
	if alpha >= 1 {
		return 255
	}
	return uint8(math.Round(alpha * 255))
}
