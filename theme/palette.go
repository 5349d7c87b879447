package theme

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Ramp is an ordered list of color stops sampled by position.
type Ramp struct {
	Name   string
	Colors []colorful.Color
}

// defaultStops is a dark-to-warm ramp used when no palette file is set.
var defaultStops = []string{
	"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
	"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
}

// DefaultRamp returns the built-in ramp.
func DefaultRamp() *Ramp {
	r := &Ramp{Name: "default"}
	for _, hex := range defaultStops {
		c, _ := colorful.Hex(hex)
		r.Colors = append(r.Colors, c)
	}
	return r
}

// LoadGPL reads a GIMP palette file.
func LoadGPL(path string) (*Ramp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := ParseGPL(f)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}
	return r, nil
}

// ParseGPL reads GIMP palette text: a header, then one "R G B [name]" line
// per color.
func ParseGPL(in io.Reader) (*Ramp, error) {
	r := &Ramp{}
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			r.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		var rgb [3]uint8
		ok := true
		for i := range rgb {
			n, err := strconv.Atoi(fields[i])
			if err != nil || n < 0 || n > 255 {
				ok = false
				break
			}
			rgb[i] = uint8(n)
		}
		if ok {
			r.Colors = append(r.Colors, colorful.Color{
				R: float64(rgb[0]) / 255,
				G: float64(rgb[1]) / 255,
				B: float64(rgb[2]) / 255,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(r.Colors) == 0 {
		return nil, fmt.Errorf("no colors found")
	}
	return r, nil
}

// Lookup returns the color at normalized position 0-1, blending neighboring
// stops in Lab space.
func (r *Ramp) Lookup(norm float64) colorful.Color {
	if norm <= 0 || len(r.Colors) == 1 {
		return r.Colors[0]
	}
	if norm >= 1 {
		return r.Colors[len(r.Colors)-1]
	}

	pos := norm * float64(len(r.Colors)-1)
	i := int(pos)
	return r.Colors[i].BlendLab(r.Colors[i+1], pos-float64(i)).Clamped()
}
