// Package palette maps 24-bit RGB clip colors onto the controller's fixed
// color table. The table is the session view's standard clip palette; the
// value of each entry is the velocity the controller renders as that color.
package palette

// Entry is one palette color and the velocity that selects it.
type Entry struct {
	RGB int
	ID  uint8
}

// entries is kept in a fixed order: nearest-color ties resolve to the
// earliest entry, so reordering changes quantization results.
var entries = []Entry{
	{0xA6BE00, 74},
	{0xF66C03, 84},
	{0x3DC300, 76},
	{0x624BAD, 69},
	{0xDBC300, 99},
	{0x85961F, 19},
	{0xFF3636, 5},
	{0x3C3C3C, 71},
	{0x99724B, 15},
	{0x7DB04D, 18},
	{0xB78256, 11},
	{0xBFBA69, 73},
	{0xCC2E6E, 58},
	{0xBAD074, 111},
	{0xF7F47C, 13},
	{0xC6928B, 4},
	{0x9BC48D, 88},
	{0x0A9C8E, 65},
	{0xD2E498, 110},
	{0x2F52A2, 46},
	{0xFF94A6, 107},
	{0x88C2BA, 102},
	{0x5480E4, 79},
	{0xD0D0D0, 117},
	{0xE5DCE1, 119},
	{0xD86CE4, 94},
	{0xAE98E5, 44},
	{0xCC9927, 100},
	{0x10A4EE, 78},
	{0xA95131, 127},
	{0xFFA529, 96},
	{0x1AFF2F, 87},
	{0x539F31, 64},
	{0x19E9FF, 90},
	{0xFFF034, 97},
	{0x724F41, 126},
	{0x886CE4, 80},
	{0xE2675A, 10},
	{0x87FF67, 16},
	{0x99836A, 105},
	{0xD3AD71, 14},
	{0xFFA374, 108},
	{0x7B7B7B, 70},
	{0x236384, 39},
	{0x1A2F96, 47},
	{0xBC7196, 59},
	{0xAF3333, 121},
	{0xE553A0, 57},
	{0x25FFA8, 25},
	{0xA9A9A9, 112},
	{0xA34BAD, 81},
	{0xEDFFAE, 8},
	{0x00BFAF, 77},
	{0xA595B5, 93},
	{0xBF9FBE, 48},
	{0x007DC0, 43},
	{0x85A5C2, 103},
	{0x9BB3C4, 104},
	{0xB677C6, 55},
	{0x8393CC, 66},
	{0xFF39D4, 95},
	{0xBFFB00, 86},
	{0xD4FDE1, 28},
	{0xB9C1E3, 115},
	{0xCDBBE4, 116},
	{0xFFFFFF, 3},
	{0x5CFFE8, 33},
	{0xCDF1F8, 114},
	{0x92A7FF, 92},
	{0x8BC5FF, 36},
}

var exact = func() map[int]uint8 {
	m := make(map[int]uint8, len(entries))
	for _, e := range entries {
		m[e.RGB] = e.ID
	}
	return m
}()

// Entries returns a copy of the palette in enumeration order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Len is the number of palette entries.
func Len() int {
	return len(entries)
}

// RGB returns the color of the first entry with the given id.
func RGB(id uint8) (int, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e.RGB, true
		}
	}
	return 0, false
}
