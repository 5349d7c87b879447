package palette

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MaxRGB is the largest packed 0xRRGGBB value.
const MaxRGB = 0xFFFFFF

// Off is the id returned for absent or malformed colors.
const Off uint8 = 0

// Channels splits a packed 0xRRGGBB value into its 8-bit components.
func Channels(rgb int) (r, g, b int) {
	return (rgb >> 16) & 0xFF, (rgb >> 8) & 0xFF, rgb & 0xFF
}

// Quantize returns the palette id for rgb: the exact entry if rgb is a
// palette key, otherwise the entry nearest by squared RGB distance. Each
// channel is masked to 8 bits, so bits outside 0xRRGGBB are ignored and
// negative values read as two's complement.
func Quantize(rgb int) uint8 {
	if id, ok := exact[rgb]; ok {
		return id
	}
	return nearest(entries, rgb)
}

// QuantizeValue quantizes a dynamically typed color as decoded from a host
// message. nil and anything that is not an integral number map to Off.
func QuantizeValue(v any) uint8 {
	rgb, ok := ParseRGB(v)
	if !ok {
		return Off
	}
	return Quantize(rgb)
}

// ParseRGB converts a loosely typed color value into a packed RGB int. Any
// integral number is accepted; Quantize masks it to 24 bits.
func ParseRGB(v any) (int, bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		n = int64(x)
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}
		n = int64(x)
	case float32:
		return parseFloat(float64(x))
	case float64:
		return parseFloat(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			f, ferr := x.Float64()
			if ferr != nil {
				return 0, false
			}
			return parseFloat(f)
		}
		n = i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	return int(n), true
}

func parseFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

// nearest scans es in order and keeps the first entry with the smallest
// squared distance to rgb.
func nearest(es []Entry, rgb int) uint8 {
	best := Off
	bestDist := -1
	for _, e := range es {
		dist := Distance(rgb, e.RGB)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = e.ID
		}
	}
	return best
}

// Distance is the squared RGB distance between two packed colors.
func Distance(a, b int) int {
	ar, ag, ab := Channels(a)
	br, bg, bb := Channels(b)
	return (ar-br)*(ar-br) + (ag-bg)*(ag-bg) + (ab-bb)*(ab-bb)
}
