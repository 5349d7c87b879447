package midi

// Grid geometry of the pad matrix.
const (
	GridRows = 8
	GridCols = 8
)

// Note layout: the left four columns start at note 64 on the top row, the
// right four at 96, and every row down subtracts 4.
//
//	row 0: 64 65 66 67 96 97 98 99
//	row 1: 60 61 62 63 92 93 94 95
//	...
//	row 7: 36 37 38 39 68 69 70 71
const (
	layoutBase      = 64
	layoutRightBase = layoutBase + 32
	layoutRowStep   = 4
	layoutBlockCols = 4
)

// NoteFor returns the pad note at row (top to bottom) and col (left to right).
func NoteFor(row, col int) uint8 {
	rowOffset := row * layoutRowStep
	if col < layoutBlockCols {
		return uint8(layoutBase + col - rowOffset)
	}
	return uint8(layoutRightBase + (col - layoutBlockCols) - rowOffset)
}

// RowColFor inverts NoteFor over the 8x8 grid.
func RowColFor(note uint8) (row, col int, ok bool) {
	n := int(note)
	base, colBase := layoutBase, 0
	if n >= layoutRightBase-(GridRows-1)*layoutRowStep {
		base, colBase = layoutRightBase, layoutBlockCols
	}
	top := base + layoutBlockCols - 1
	if n > top || n < base-(GridRows-1)*layoutRowStep {
		return -1, -1, false
	}
	row = (top - n) / layoutRowStep
	col = colBase + n - (base - row*layoutRowStep)
	return row, col, true
}
