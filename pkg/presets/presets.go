// Package presets provides the named filter presets offered by the editor.
// A preset overwrites a fixed set of adjustment fields and leaves every
// other field of the effects untouched.
package presets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/user/canvasfx/pkg/effects"
)

// ErrUnknown is returned when a preset name is not recognised.
var ErrUnknown = errors.New("unknown preset")

// Reset restores every effect to its default. "original" is an alias.
const Reset = "reset"

type preset struct {
	description string
	apply       func(e *effects.ImageEffects)
}

var registry = map[string]preset{
	"vintage": {"Warm, nostalgic tones", func(e *effects.ImageEffects) {
		e.Saturation = 120
		e.Temperature = 20
		e.Vibrance = 80
		e.Exposure = -5
		e.Highlights = 70
		e.Shadows = 10
	}},
	"dramatic": {"High contrast, moody", func(e *effects.ImageEffects) {
		e.Contrast = 130
		e.Saturation = 110
		e.Exposure = -10
		e.Highlights = 80
		e.Shadows = -20
		e.Vibrance = 90
	}},
	"soft": {"Gentle, dreamy look", func(e *effects.ImageEffects) {
		e.Contrast = 90
		e.Saturation = 95
		e.Blur = 2
		e.Exposure = 5
		e.Highlights = 40
		e.Shadows = 15
	}},
	"monochrome": {"Black and white style", func(e *effects.ImageEffects) {
		e.Grayscale = 100
		e.Contrast = 110
		e.Exposure = -5
		e.Highlights = 60
		e.Shadows = 10
	}},
	"cyberpunk": {"Futuristic, neon vibes", func(e *effects.ImageEffects) {
		e.Saturation = 130
		e.Hue = 180
		e.Temperature = -30
		e.Vibrance = 100
		e.Exposure = -15
		e.Highlights = 90
		e.Shadows = -30
	}},
	"warm": {"Golden, cozy tones", func(e *effects.ImageEffects) {
		e.Temperature = 30
		e.Saturation = 110
		e.Vibrance = 85
		e.Exposure = 5
		e.Highlights = 70
	}},
	"cool": {"Blue-tinted, calm", func(e *effects.ImageEffects) {
		e.Temperature = -30
		e.Saturation = 105
		e.Vibrance = 80
		e.Exposure = -5
		e.Highlights = 50
	}},
	"bright": {"Luminous, vibrant", func(e *effects.ImageEffects) {
		e.Brightness = 120
		e.Exposure = 15
		e.Highlights = 80
		e.Shadows = 20
		e.Vibrance = 90
	}},
	"dark": {"Mysterious, shadowy", func(e *effects.ImageEffects) {
		e.Brightness = 80
		e.Exposure = -20
		e.Highlights = 30
		e.Shadows = -40
		e.Contrast = 120
	}},
}

// Apply returns a copy of e with the named preset applied.
// The reset preset returns the default effects. An unknown name returns
// ErrUnknown together with e unchanged.
func Apply(name string, e effects.ImageEffects) (effects.ImageEffects, error) {
	if name == Reset || name == "original" {
		return effects.DefaultImageEffects(), nil
	}
	p, ok := registry[name]
	if !ok {
		return e, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	p.apply(&e)
	return e, nil
}

// Names returns the preset names in alphabetical order, excluding reset.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line description of a preset.
func Describe(name string) (string, bool) {
	p, ok := registry[name]
	return p.description, ok
}
