// Package tank implements the tank algorithm: the frontier is split into
// independent segments and every mine assignment of each segment is tried.
// Only cells that are safe or mined in every assignment are played.
package tank

import (
	"github.com/denismitr/minsweeper"
)

// DefaultMaxSegment is the largest segment enumerated by default.
const DefaultMaxSegment = 18

type Logic int

const (
	// SafeNeighbours is a number whose flags already account for it.
	SafeNeighbours Logic = iota
	// MinedNeighbours is a number that needs every covered neighbour.
	MinedNeighbours
	// SegmentSafe is a cell that is safe in every assignment of its segment.
	SegmentSafe
	// SegmentMine is a cell that is a mine in every assignment of its segment.
	SegmentMine
)

func (l Logic) Description() string {
	switch l {
	case SafeNeighbours:
		return "the flags around the number account for it"
	case MinedNeighbours:
		return "the number needs every covered cell around it"
	case SegmentSafe:
		return "the cell is safe in every arrangement of its frontier segment"
	case SegmentMine:
		return "the cell is a mine in every arrangement of its frontier segment"
	}
	return ""
}

type Solver struct {
	// MaxSegment skips segments with more cells. 0 uses DefaultMaxSegment.
	MaxSegment int
}

func New() Solver {
	return Solver{MaxSegment: DefaultMaxSegment}
}

func (Solver) Name() string {
	return "Tank Solver"
}

func (Solver) Description() string {
	return "solver that backtracks over independent segments of the frontier"
}

func (s Solver) Solve(state minsweeper.GameState) *minsweeper.Move {
	if state.Board == nil || state.Status != minsweeper.Playing {
		return nil
	}

	b := state.Board
	if m := singleCellMove(b); m != nil {
		return m
	}

	limit := s.MaxSegment
	if limit <= 0 {
		limit = DefaultMaxSegment
	}

	for _, seg := range segments(b) {
		if len(seg.unknowns) > limit {
			continue
		}
		if m := seg.certainMove(); m != nil {
			return m
		}
	}

	return nil
}

func singleCellMove(b *minsweeper.Board) *minsweeper.Move {
	var move *minsweeper.Move
	b.Each(func(p minsweeper.Point, c minsweeper.Cell) bool {
		n, ok := c.Number()
		if !ok || n == 0 {
			return true
		}

		flags, hidden := neighbours(b, p)
		switch {
		case flags == n && len(hidden) > 0:
			move = minsweeper.NewMove(hidden[0].X, hidden[0].Y, minsweeper.Left).Because(SafeNeighbours, p)
		case flags+len(hidden) == n && len(hidden) > 0:
			move = minsweeper.NewMove(hidden[0].X, hidden[0].Y, minsweeper.Right).Because(MinedNeighbours, p)
		}
		return move == nil
	})
	return move
}

// neighbours counts the flags around p and lists the covered cells.
func neighbours(b *minsweeper.Board, p minsweeper.Point) (flags int, hidden []minsweeper.Point) {
	for _, n := range b.Neighbours(p.X, p.Y) {
		switch b.At(n).State {
		case minsweeper.Flagged:
			flags++
		case minsweeper.Covered:
			hidden = append(hidden, n)
		}
	}
	return
}
