package minsweeper

import "strconv"

type cellKind int8

const (
	safeKind cellKind = iota
	mineKind
	unknownKind
)

// CellType is what lies under a cell: a safe cell with the number of
// neighbouring mines, a mine, or Unknown when the type is hidden from the player.
type CellType struct {
	kind   cellKind
	number int
}

var (
	Empty   = CellType{kind: safeKind}
	Mine    = CellType{kind: mineKind}
	Unknown = CellType{kind: unknownKind}
)

func Safe(number int) CellType {
	return CellType{kind: safeKind, number: number}
}

func (t CellType) IsSafe() bool {
	return t.kind == safeKind
}

func (t CellType) IsMine() bool {
	return t.kind == mineKind
}

func (t CellType) IsUnknown() bool {
	return t.kind == unknownKind
}

// Number returns the neighbouring mine count and true for safe cells.
func (t CellType) Number() (int, bool) {
	if t.kind != safeKind {
		return 0, false
	}
	return t.number, true
}

func (t CellType) String() string {
	switch t.kind {
	case mineKind:
		return "mine"
	case unknownKind:
		return "unknown"
	default:
		return "safe(" + strconv.Itoa(t.number) + ")"
	}
}

type CellState int8

const (
	Covered CellState = iota
	Revealed
	Flagged
)

func (s CellState) String() string {
	switch s {
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return "covered"
	}
}

type Cell struct {
	Type  CellType
	State CellState
}

// Number returns the mine count of a revealed safe cell.
func (c Cell) Number() (int, bool) {
	if c.State != Revealed {
		return 0, false
	}
	return c.Type.Number()
}

func (c Cell) glyph() byte {
	switch c.State {
	case Revealed:
		if c.Type.IsMine() {
			return 'X'
		}
		if n, ok := c.Type.Number(); ok && n > 0 {
			return byte('0' + n)
		}
		return '.'
	case Flagged:
		if c.Type.IsMine() {
			return 'F'
		}
		return '!'
	default:
		if c.Type.IsMine() {
			return '*'
		}
		return '#'
	}
}
