package theme

import (
	"strings"
	"testing"
)

const gpl = `GIMP Palette
Name: test
Columns: 2
#
  0   0   0	black
255 255 255	white
300   0   0	out of range
  1   2
`

func TestParseGPL(t *testing.T) {
	r, err := ParseGPL(strings.NewReader(gpl))
	if err != nil {
		t.Fatalf("ParseGPL: %v", err)
	}
	if r.Name != "test" || len(r.Colors) != 2 {
		t.Fatalf("expected 2 colors named test, got %q with %d", r.Name, len(r.Colors))
	}

	if got := r.Lookup(-1).Hex(); got != "#000000" {
		t.Errorf("expected black at 0, got %s", got)
	}
	if got := r.Lookup(2).Hex(); got != "#ffffff" {
		t.Errorf("expected white at 1, got %s", got)
	}
	mid := r.Lookup(0.5)
	if mid.Hex() == "#000000" || mid.Hex() == "#ffffff" {
		t.Errorf("expected a blended midpoint, got %s", mid.Hex())
	}
}

func TestParseGPL_Empty(t *testing.T) {
	if _, err := ParseGPL(strings.NewReader("GIMP Palette\nName: none\n")); err == nil {
		t.Errorf("expected error for a palette without colors")
	}
}

func TestNew_FallsBackToDefault(t *testing.T) {
	th := New(nil)
	if th.Ramp.Name != "default" || len(th.Ramp.Colors) != len(defaultStops) {
		t.Errorf("expected default ramp, got %q", th.Ramp.Name)
	}
	if c := string(th.Accent()); !strings.HasPrefix(c, "#") || len(c) != 7 {
		t.Errorf("expected hex color, got %q", c)
	}
}
