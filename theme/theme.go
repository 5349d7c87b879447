// Package theme holds the monitor's colors and glyphs.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

type Theme struct {
	Ramp    *Ramp
	Symbols Symbols
}

type Symbols struct {
	Clip   rune // ● lit clip pad
	Button rune // ■ bound button
	Off    rune // · unlit pad
	Cursor rune // ◆ keyboard cursor
}

func New(ramp *Ramp) *Theme {
	if ramp == nil || len(ramp.Colors) == 0 {
		ramp = DefaultRamp()
	}
	return &Theme{
		Ramp: ramp,
		Symbols: Symbols{
			Clip:   '●',
			Button: '■',
			Off:    '·',
			Cursor: '◆',
		},
	}
}

// Color roles mapped to ramp positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.2
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleCursor  = 0.6
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Cursor() lipgloss.Color  { return t.Color(RoleCursor) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns the lipgloss color at a ramp position.
func (t *Theme) Color(norm float64) lipgloss.Color {
	return Lipgloss(t.Ramp.Lookup(norm))
}

// Lipgloss converts a colorful color for rendering.
func Lipgloss(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}
