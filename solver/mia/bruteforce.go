package mia

import (
	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/internal/pointset"
)

// frontier is the set of covered cells next to a revealed number together
// with the constraints those numbers put on them.
type frontier struct {
	cells    []minsweeper.Point
	index    map[minsweeper.Point]int
	rules    []rule
	byCell   [][]int
	interior []minsweeper.Point
}

// rule requires exactly mines mines among cells.
type rule struct {
	cells []int
	mines int
}

func newFrontier(b *minsweeper.Board) *frontier {
	cells := pointset.New()
	var numbers []minsweeper.Point
	eachNumber(b, func(p minsweeper.Point, number int) bool {
		if number == 0 {
			return true
		}
		_, covered := surroundings(b, p)
		if len(covered) == 0 {
			return true
		}
		numbers = append(numbers, p)
		for _, c := range covered {
			cells.Add(c)
		}
		return true
	})

	f := &frontier{cells: cells.Points(), index: make(map[minsweeper.Point]int, cells.Len())}
	for i, p := range f.cells {
		f.index[p] = i
	}

	f.byCell = make([][]int, len(f.cells))
	for _, p := range numbers {
		number, _ := b.At(p).Number()
		flagged, covered := surroundings(b, p)
		r := rule{mines: number - len(flagged), cells: make([]int, 0, len(covered))}
		for _, c := range covered {
			r.cells = append(r.cells, f.index[c])
		}
		for _, c := range r.cells {
			f.byCell[c] = append(f.byCell[c], len(f.rules))
		}
		f.rules = append(f.rules, r)
	}

	b.Each(func(p minsweeper.Point, c minsweeper.Cell) bool {
		if c.State == minsweeper.Covered && !cells.Has(p) {
			f.interior = append(f.interior, p)
		}
		return true
	})

	return f
}

// tally summarises every mine assignment of the frontier consistent with the
// revealed numbers and the mine counter.
type tally struct {
	solutions int
	mines     []int
	// exhaustive is true when every solution places all remaining mines.
	exhaustive bool
}

// enumerate walks every consistent assignment by backtracking over the
// frontier in row-major order. A solution may use at most remaining mines and
// must leave no more mines than the interior cells can hold.
func (f *frontier) enumerate(remaining int) tally {
	t := tally{mines: make([]int, len(f.cells)), exhaustive: true}

	need := make([]int, len(f.rules))
	open := make([]int, len(f.rules))
	for i, r := range f.rules {
		if r.mines < 0 || r.mines > len(r.cells) {
			return tally{}
		}
		need[i] = r.mines
		open[i] = len(r.cells)
	}

	assignment := make([]bool, len(f.cells))
	minMines := remaining - len(f.interior)

	var walk func(i, placed int)
	walk = func(i, placed int) {
		if i == len(f.cells) {
			if placed < minMines {
				return
			}
			t.solutions++
			for c, mine := range assignment {
				if mine {
					t.mines[c]++
				}
			}
			if placed != remaining {
				t.exhaustive = false
			}
			return
		}

		for _, mine := range [2]bool{true, false} {
			if mine && placed >= remaining {
				continue
			}
			if !f.assign(i, mine, need, open) {
				f.unassign(i, mine, need, open)
				continue
			}

			assignment[i] = mine
			next := placed
			if mine {
				next++
			}
			walk(i+1, next)
			f.unassign(i, mine, need, open)
		}
		assignment[i] = false
	}

	walk(0, 0)

	if t.solutions == 0 {
		t.exhaustive = false
	}
	return t
}

// assign updates the rules touching cell c and reports whether they can all
// still be met.
func (f *frontier) assign(c int, mine bool, need, open []int) bool {
	ok := true
	for _, r := range f.byCell[c] {
		open[r]--
		if mine {
			need[r]--
		}
		if need[r] < 0 || need[r] > open[r] {
			ok = false
		}
	}
	return ok
}

func (f *frontier) unassign(c int, mine bool, need, open []int) {
	for _, r := range f.byCell[c] {
		open[r]++
		if mine {
			need[r]++
		}
	}
}

// bruteForceMove gives every certain click found by enumerating the frontier,
// provided it has fewer than limit cells.
func bruteForceMove(state minsweeper.GameState, limit int) *minsweeper.Move {
	f := newFrontier(state.Board)
	if len(f.cells) == 0 || len(f.cells) >= limit {
		return nil
	}

	t := f.enumerate(state.RemainingMines)
	if t.solutions == 0 {
		return nil
	}

	var reveal, flag []minsweeper.Point
	for i, p := range f.cells {
		switch t.mines[i] {
		case 0:
			reveal = append(reveal, p)
		case t.solutions:
			flag = append(flag, p)
		}
	}

	if len(reveal)+len(flag) > 0 {
		m := clicksAt(reveal, minsweeper.Left)
		m.Clicks = append(m.Clicks, clicksAt(flag, minsweeper.Right).Clicks...)

		logic := BruteForce
		switch {
		case len(flag) == 0:
			logic = BruteForceReveal
		case len(reveal) == 0:
			logic = BruteForceFlag
		}
		return m.SortClicks().Because(logic, f.cells...)
	}

	if t.exhaustive && len(f.interior) > 0 {
		return clicksAt(f.interior, minsweeper.Left).Because(BruteForceExhaustion, f.cells...)
	}

	return nil
}
