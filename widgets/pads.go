// Package widgets renders pad grids and help text for the terminal monitor.
package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"mystrix-remote/midi"
	"mystrix-remote/palette"
	"mystrix-remote/theme"
)

// PadColor approximates what the controller shows for a velocity. Palette
// ids use the table color; other velocities (brightened clips) are drawn as
// the nearest lower palette color, lightened by the distance.
func PadColor(velocity uint8) (colorful.Color, bool) {
	if velocity == 0 {
		return colorful.Color{}, false
	}
	if rgb, ok := palette.RGB(velocity); ok {
		return fromRGB(rgb), true
	}
	for v := int(velocity) - 1; v > 0; v-- {
		if rgb, ok := palette.RGB(uint8(v)); ok {
			base := fromRGB(rgb)
			lift := float64(int(velocity)-v) / 127
			return base.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, lift).Clamped(), true
		}
	}
	gray := float64(velocity) / 127
	return colorful.Color{R: gray, G: gray, B: gray}, true
}

func fromRGB(rgb int) colorful.Color {
	r, g, b := palette.Channels(rgb)
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Pad is one cell of a rendered grid.
type Pad struct {
	Velocity uint8
	Fixed    bool
	InWindow bool
	Cursor   bool
}

// RenderPad renders a single pad.
func RenderPad(th *theme.Theme, p Pad) string {
	style := lipgloss.NewStyle()
	sym := th.Symbols.Off
	if c, lit := PadColor(p.Velocity); lit {
		style = style.Foreground(theme.Lipgloss(c))
		sym = th.Symbols.Clip
		if p.Fixed {
			sym = th.Symbols.Button
		}
	} else if p.InWindow {
		style = style.Foreground(th.Muted())
	}
	if p.Cursor {
		style = style.Background(th.Cursor())
	}
	return style.Render(string(sym))
}

// RenderPadGrid renders the 8x8 grid, row 0 on top like the hardware.
func RenderPadGrid(th *theme.Theme, grid [midi.GridRows][midi.GridCols]Pad) string {
	lines := make([]string, 0, midi.GridRows)
	for row := 0; row < midi.GridRows; row++ {
		var line strings.Builder
		for col := 0; col < midi.GridCols; col++ {
			if col > 0 {
				line.WriteString(" ")
			}
			if col == 4 {
				line.WriteString(" ")
			}
			line.WriteString(RenderPad(th, grid[row][col]))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// PadAt maps a position inside a rendered grid back to row and column.
func PadAt(x, y int) (row, col int, ok bool) {
	if y < 0 || y >= midi.GridRows || x < 0 {
		return 0, 0, false
	}
	switch {
	case x == 8:
		return 0, 0, false
	case x > 8:
		x--
	}
	if x%2 != 0 {
		return 0, 0, false
	}
	col = x / 2
	if col >= midi.GridCols {
		return 0, 0, false
	}
	return y, col, true
}

// RenderKeyHelp formats key bindings in a friendly way.
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings.
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description.
type KeyBinding struct {
	Key  string
	Desc string
}
