package mia

import (
	"strconv"

	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/internal/pointset"
)

// BruteForceLimit bounds the frontier size Solver will enumerate.
const BruteForceLimit = 30

// Solver chords and flags whole neighbourhoods in one move, closes region
// deductions over every unsatisfied number and brute forces what is left.
type Solver struct{}

// Default is the strongest solver of the package.
func Default() minsweeper.Solver {
	return Solver{}
}

func (Solver) Name() string {
	return "Mia Solver"
}

func (Solver) Description() string {
	return "mia's best attempt at a minesweeper solver"
}

func (Solver) Solve(state minsweeper.GameState) *minsweeper.Move {
	if state.Board == nil || state.Status != minsweeper.Playing {
		return nil
	}

	b := state.Board
	var move *minsweeper.Move
	eachNumber(b, func(p minsweeper.Point, number int) bool {
		move = neighbourhoodMove(b, p, number)
		return move == nil
	})
	if move != nil {
		return move
	}

	if m := newRegions(b).deduce(); m != nil {
		return m
	}

	if m := zeroRemainingMove(state, true); m != nil {
		return m
	}

	return bruteForceMove(state, BruteForceLimit)
}

// neighbourhoodMove is beginnerMove acting on every cell around p at once.
func neighbourhoodMove(b *minsweeper.Board, p minsweeper.Point, number int) *minsweeper.Move {
	flagged, covered := surroundings(b, p)

	switch {
	case number == len(flagged) && len(covered) > 0:
		return minsweeper.NewMove(p.X, p.Y, minsweeper.Left).Because(Chord, flagged...)
	case number == len(flagged)+len(covered) && len(covered) > 0:
		related := append(append(flagged, covered...), p)
		return clicksAt(covered, minsweeper.Right).Because(FlagChord, related...)
	case number < len(flagged):
		return clicksAt(flagged, minsweeper.Right)
	}

	return nil
}

// region is a set of covered cells holding exactly mines mines.
type region struct {
	mines  int
	points *pointset.Set
}

type regions struct {
	list []region
	seen map[string]struct{}
	// byPoint lists the regions containing each point.
	byPoint map[minsweeper.Point][]int
}

func newRegions(b *minsweeper.Board) *regions {
	rs := &regions{seen: make(map[string]struct{}), byPoint: make(map[minsweeper.Point][]int)}
	eachNumber(b, func(p minsweeper.Point, number int) bool {
		flagged, covered := surroundings(b, p)
		if number-len(flagged) <= 0 || len(covered) == 0 {
			return true
		}
		rs.add(region{mines: number - len(flagged), points: pointset.New(covered...)})
		return true
	})
	return rs
}

func (rs *regions) add(r region) bool {
	key := strconv.Itoa(r.mines) + "|" + r.points.Key()
	if _, ok := rs.seen[key]; ok {
		return false
	}

	rs.seen[key] = struct{}{}
	idx := len(rs.list)
	rs.list = append(rs.list, r)
	r.points.Each(func(p minsweeper.Point) bool {
		rs.byPoint[p] = append(rs.byPoint[p], idx)
		return true
	})
	return true
}

// touching returns the indexes of the regions sharing a point with r.
func (rs *regions) touching(r region) []int {
	var found []int
	marked := make(map[int]bool)
	r.points.Each(func(p minsweeper.Point) bool {
		for _, i := range rs.byPoint[p] {
			if !marked[i] {
				marked[i] = true
				found = append(found, i)
			}
		}
		return true
	})
	return found
}

// deduce compares every region with the regions overlapping it. A region
// inside another leaves the difference with a known mine count, which is kept
// as a new region until no new region appears.
func (rs *regions) deduce() *minsweeper.Move {
	for changed := true; changed; {
		changed = false

		var derived []region
		for i := 0; i < len(rs.list); i++ {
			outer := rs.list[i]
			for _, j := range rs.touching(outer) {
				inner := rs.list[j]
				rest := outer.points.Difference(inner.points)
				if rest.Empty() {
					continue
				}

				mines := outer.mines - inner.mines
				contained := outer.points.ContainsAll(inner.points)

				switch {
				case contained && mines == 0:
					return clicksAt(rest.Points(), minsweeper.Left).Because(RegionDeductionReveal, inner.points.Points()...)
				case mines == rest.Len():
					return clicksAt(rest.Points(), minsweeper.Right).Because(RegionDeductionFlag, inner.points.Points()...)
				case contained && mines > 0:
					derived = append(derived, region{mines: mines, points: rest})
				}
			}
		}

		for _, r := range derived {
			if rs.add(r) {
				changed = true
			}
		}
	}

	return nil
}
