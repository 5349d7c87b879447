// Package tui is a terminal mirror of the pad LEDs. It draws the frames the
// surface publishes and can press pads with the keyboard or mouse.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mystrix-remote/midi"
	"mystrix-remote/surface"
	"mystrix-remote/theme"
	"mystrix-remote/widgets"
)

// Surface is what the monitor needs from the running engine.
type Surface interface {
	Frames() <-chan surface.Frame
	Press(ev midi.ButtonEvent) bool
}

// gridTop is the screen row of the first pad row: blank line, header, blank.
const gridTop = 3

type Model struct {
	surface  Surface
	theme    *theme.Theme
	labels   map[uint8]string
	frame    surface.Frame
	hasFrame bool

	cursorRow int
	cursorCol int
	tooltip   string
	quitting  bool
}

// FrameMsg carries a new LED frame into the program.
type FrameMsg surface.Frame

// NewModel builds the monitor. bindings label the bound pads in tooltips.
func NewModel(s Surface, th *theme.Theme, bindings []surface.Binding) Model {
	labels := make(map[uint8]string, len(bindings))
	for _, b := range bindings {
		labels[b.Note()] = b.String()
	}
	return Model{surface: s, theme: th, labels: labels}
}

// ListenForFrames waits for the next frame.
func ListenForFrames(s Surface) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-s.Frames()
		if !ok {
			return nil
		}
		return FrameMsg(f)
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForFrames(m.surface)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			m.cursorRow = max(m.cursorRow-1, 0)
		case "down", "j":
			m.cursorRow = min(m.cursorRow+1, midi.GridRows-1)
		case "left", "h":
			m.cursorCol = max(m.cursorCol-1, 0)
		case "right", "l":
			m.cursorCol = min(m.cursorCol+1, midi.GridCols-1)
		case " ", "enter":
			m.press(m.cursorRow, m.cursorCol)
		}
		m.tooltip = m.label(m.cursorRow, m.cursorCol)

	case tea.MouseMsg:
		row, col, ok := widgets.PadAt(msg.X, msg.Y-gridTop)
		if !ok {
			m.tooltip = ""
			break
		}
		m.tooltip = m.label(row, col)
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.cursorRow, m.cursorCol = row, col
			m.press(row, col)
		}

	case FrameMsg:
		m.frame = surface.Frame(msg)
		m.hasFrame = true
		return m, ListenForFrames(m.surface)
	}

	return m, nil
}

func (m Model) press(row, col int) {
	note := midi.NoteFor(row, col)
	m.surface.Press(midi.ButtonEvent{Note: note, Value: midi.VelocityFull})
}

func (m Model) label(row, col int) string {
	note := midi.NoteFor(row, col)
	if l, ok := m.labels[note]; ok {
		return l
	}
	v := m.frame.View
	if row < v.Scenes && col < v.Tracks {
		return fmt.Sprintf("clip track %d scene %d", v.TrackOffset+col+1, v.SceneOffset+row+1)
	}
	return fmt.Sprintf("note %d", note)
}

func (m Model) grid() [midi.GridRows][midi.GridCols]widgets.Pad {
	var g [midi.GridRows][midi.GridCols]widgets.Pad
	v := m.frame.View
	for row := 0; row < midi.GridRows; row++ {
		for col := 0; col < midi.GridCols; col++ {
			note := midi.NoteFor(row, col)
			_, fixed := m.frame.Fixed[note]
			g[row][col] = widgets.Pad{
				Velocity: m.frame.LEDs[note],
				Fixed:    fixed,
				InWindow: !fixed && row < v.Scenes && col < v.Tracks,
				Cursor:   row == m.cursorRow && col == m.cursorCol,
			}
		}
	}
	return g
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.theme.Warning())
	tooltipStyle := lipgloss.NewStyle().
		Foreground(m.theme.FG()).
		Background(m.theme.Muted()).
		Padding(0, 1)

	device := warnStyle.Render("no controller")
	if m.frame.Device != "" {
		device = m.frame.Device
	}
	v := m.frame.View
	header := headerStyle.Render(fmt.Sprintf("mystrix-remote  tracks %d-%d  scenes %d-%d  tick %d  ",
		v.TrackOffset+1, v.TrackOffset+v.Tracks, v.SceneOffset+1, v.SceneOffset+v.Scenes, m.frame.Tick)) + device

	body := dimStyle.Render("waiting for surface...")
	if m.hasFrame {
		body = widgets.RenderPadGrid(m.theme, m.grid())
	}

	help := dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{{
		Keys: []widgets.KeyBinding{
			{Key: "hjkl/arrows", Desc: "move cursor"},
			{Key: "space/click", Desc: "press pad"},
			{Key: "q", Desc: "quit"},
		},
	}}))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(body)
	out.WriteString("\n\n")
	out.WriteString(help)
	if m.tooltip != "" {
		out.WriteString("\n")
		out.WriteString(tooltipStyle.Render(m.tooltip))
	}
	return out.String()
}
