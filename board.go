package minsweeper

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

var ErrInvalidBoardText = errors.New("invalid board text")

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Less orders points row by row.
func (p Point) Less(other Point) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

// Board is a rectangular grid of cells stored row by row.
type Board struct {
	size  BoardSize
	cells []Cell
}

// NewBoard creates a board of covered empty cells.
func NewBoard(size BoardSize) *Board {
	return NewFilledBoard(size, Cell{Type: Empty, State: Covered})
}

func NewFilledBoard(size BoardSize, fill Cell) *Board {
	b := &Board{size: size, cells: make([]Cell, size.Width*size.Height)}
	for i := range b.cells {
		b.cells[i] = fill
	}
	return b
}

func (b *Board) Size() BoardSize {
	return b.size
}

func (b *Board) Width() int {
	return b.size.Width
}

func (b *Board) Height() int {
	return b.size.Height
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.size.Width && y >= 0 && y < b.size.Height
}

func (b *Board) Get(x, y int) Cell {
	return b.cells[y*b.size.Width+x]
}

func (b *Board) At(p Point) Cell {
	return b.Get(p.X, p.Y)
}

func (b *Board) Set(x, y int, c Cell) {
	b.cells[y*b.size.Width+x] = c
}

func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells}
}

// Around returns the block of up to 3x3 points centred on (x, y), centre
// included, clipped to the board.
func (b *Board) Around(x, y int) []Point {
	return b.window(x, y, 1, true)
}

// Neighbours is Around without the centre.
func (b *Board) Neighbours(x, y int) []Point {
	return b.window(x, y, 1, false)
}

// Window returns the (2r+1)x(2r+1) block centred on (x, y), centre included.
func (b *Board) Window(x, y, r int) []Point {
	return b.window(x, y, r, true)
}

func (b *Board) window(x, y, r int, centre bool) []Point {
	points := make([]Point, 0, (2*r+1)*(2*r+1))
	for y2 := max(0, y-r); y2 <= min(b.size.Height-1, y+r); y2++ {
		for x2 := max(0, x-r); x2 <= min(b.size.Width-1, x+r); x2++ {
			if !centre && x2 == x && y2 == y {
				continue
			}
			points = append(points, Point{X: x2, Y: y2})
		}
	}
	return points
}

// CountAround counts the cells of the 3x3 block around (x, y) matching fn.
func (b *Board) CountAround(x, y int, fn func(c Cell) bool) int {
	count := 0
	for _, p := range b.Around(x, y) {
		if fn(b.At(p)) {
			count++
		}
	}
	return count
}

// Each walks the board row by row until fn returns false.
func (b *Board) Each(fn func(p Point, c Cell) bool) {
	for i, c := range b.cells {
		if !fn(Point{X: i % b.size.Width, Y: i / b.size.Width}, c) {
			return
		}
	}
}

// HideMines returns a copy where every cell that is not revealed has its
// type replaced by Unknown.
func (b *Board) HideMines() *Board {
	hidden := b.Clone()
	for i, c := range hidden.cells {
		if c.State != Revealed {
			hidden.cells[i] = Cell{Type: Unknown, State: c.State}
		}
	}
	return hidden
}

// HasWon reports whether no mine is revealed and every safe cell is.
func (b *Board) HasWon() bool {
	for _, c := range b.cells {
		if c.Type.IsMine() && c.State == Revealed {
			return false
		}
		if c.Type.IsSafe() && c.State != Revealed {
			return false
		}
	}
	return true
}

// Mines counts mine typed cells.
func (b *Board) Mines() int {
	mines := 0
	for _, c := range b.cells {
		if c.Type.IsMine() {
			mines++
		}
	}
	return mines
}

// Flags counts flagged cells.
func (b *Board) Flags() int {
	flags := 0
	for _, c := range b.cells {
		if c.State == Flagged {
			flags++
		}
	}
	return flags
}

// Fingerprint hashes the board contents, types and states included.
func (b *Board) Fingerprint() uint64 {
	buf := make([]byte, 8, 8+len(b.cells)*2)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(b.size.Width))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(b.size.Height))
	for _, c := range b.cells {
		buf = append(buf, byte(c.Type.kind)<<4|byte(c.Type.number), byte(c.State))
	}
	return xxhash.Sum64(buf)
}

// Equal compares dimensions and every cell.
func (b *Board) Equal(other *Board) bool {
	if b.size.Width != other.size.Width || b.size.Height != other.size.Height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// FillNumbers types every cell that is not a mine as safe with the count of
// mines around it, keeping cell states. It is only meaningful once every mine
// of the board is marked.
func (b *Board) FillNumbers() {
	for y := 0; y < b.size.Height; y++ {
		for x := 0; x < b.size.Width; x++ {
			c := b.Get(x, y)
			if c.Type.IsMine() {
				continue
			}
			c.Type = Safe(b.CountAround(x, y, func(n Cell) bool { return n.Type.IsMine() }))
			b.Set(x, y, c)
		}
	}
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((b.size.Width + 1) * b.size.Height)
	for y := 0; y < b.size.Height; y++ {
		for x := 0; x < b.size.Width; x++ {
			sb.WriteByte(b.Get(x, y).glyph())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads a board drawn one row per line:
//
//	1-8  revealed number     ., space, 0  revealed empty
//	#, O covered             !            flagged
//	*    covered mine        F            flagged mine
//	X    revealed mine
//
// Covered and flagged cells that are not marked as mines get the Unknown type,
// which is what a player sees. Empty leading and trailing lines are ignored.
func ParseBoard(text string) (*Board, error) {
	rows := splitRows(text)
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrInvalidBoardText, "no rows")
	}

	width := len(rows[0])
	size := BoardSize{Width: width, Height: len(rows)}
	b := &Board{size: size, cells: make([]Cell, 0, width*len(rows))}

	for y, row := range rows {
		if len(row) != width {
			return nil, errors.Wrapf(ErrInvalidBoardText, "row %d has %d cells, expected %d", y, len(row), width)
		}

		for x := 0; x < len(row); x++ {
			c, ok := parseGlyph(row[x])
			if !ok {
				return nil, errors.Wrapf(ErrInvalidBoardText, "unknown glyph %q at %d,%d", row[x], x, y)
			}
			b.cells = append(b.cells, c)
		}
	}

	b.size.Mines = b.Mines()
	return b, nil
}

// ParseMinefield reads a fully known board where '*' marks a mine and any
// other glyph a safe cell. Every cell starts covered and safe cells get their
// neighbouring mine counts.
func ParseMinefield(text string) (*Board, error) {
	rows := splitRows(text)
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrInvalidBoardText, "no rows")
	}

	width := len(rows[0])
	b := NewBoard(BoardSize{Width: width, Height: len(rows)})
	for y, row := range rows {
		if len(row) != width {
			return nil, errors.Wrapf(ErrInvalidBoardText, "row %d has %d cells, expected %d", y, len(row), width)
		}
		for x := 0; x < len(row); x++ {
			if row[x] == '*' {
				b.Set(x, y, Cell{Type: Mine, State: Covered})
			}
		}
	}

	b.FillNumbers()
	b.size.Mines = b.Mines()
	return b, nil
}

// splitRows cuts text into rows, dropping tabs and carriage returns around
// them. Spaces are revealed cells, so only lines left empty are skipped at
// either end.
func splitRows(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.Trim(l, "\t\r")
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

func parseGlyph(g byte) (Cell, bool) {
	switch {
	case g >= '1' && g <= '8':
		return Cell{Type: Safe(int(g - '0')), State: Revealed}, true
	}

	switch g {
	case '.', ' ', '0':
		return Cell{Type: Empty, State: Revealed}, true
	case '#', 'O':
		return Cell{Type: Unknown, State: Covered}, true
	case '!':
		return Cell{Type: Unknown, State: Flagged}, true
	case '*':
		return Cell{Type: Mine, State: Covered}, true
	case 'F':
		return Cell{Type: Mine, State: Flagged}, true
	case 'X':
		return Cell{Type: Mine, State: Revealed}, true
	}

	return Cell{}, false
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
