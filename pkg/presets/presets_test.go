package presets

import (
	"errors"
	"testing"

	"github.com/user/canvasfx/pkg/effects"
)

func TestApply(t *testing.T) {
	base := effects.DefaultImageEffects()
	base.Outline.Enabled = true

	got, err := Apply("vintage", base)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got.Saturation != 120 || got.Temperature != 20 || got.Vibrance != 80 {
		t.Errorf("vintage not applied: %+v", got)
	}
	if got.Brightness != 100 {
		t.Errorf("brightness should be untouched, got %v", got.Brightness)
	}
	if !got.Outline.Enabled {
		t.Error("preset should not touch sub-effects")
	}
	if base.Saturation != 100 {
		t.Error("input effects were mutated")
	}
}

func TestApply_AllPresetsChangeSomething(t *testing.T) {
	base := effects.DefaultImageEffects()
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			got, err := Apply(name, base)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if got == base {
				t.Error("preset produced no change")
			}
			if _, ok := Describe(name); !ok {
				t.Error("preset has no description")
			}
		})
	}
}

func TestApply_Reset(t *testing.T) {
	e := effects.DefaultImageEffects()
	e.Contrast = 150
	e.Glow.Enabled = true

	for _, name := range []string{Reset, "original"} {
		got, err := Apply(name, e)
		if err != nil {
			t.Fatalf("Apply(%q) failed: %v", name, err)
		}
		if got != effects.DefaultImageEffects() {
			t.Errorf("Apply(%q) did not reset", name)
		}
	}
}

func TestApply_Unknown(t *testing.T) {
	e := effects.DefaultImageEffects()
	e.Hue = 30

	got, err := Apply("sepia-dream", e)
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	if got != e {
		t.Error("unknown preset should return input unchanged")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 9 {
		t.Fatalf("expected 9 presets, got %d", len(names))
	}
	if names[0] != "bright" || names[len(names)-1] != "warm" {
		t.Errorf("names not sorted: %v", names)
	}
}
