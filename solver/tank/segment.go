package tank

import (
	"sort"

	"github.com/denismitr/minsweeper"
)

// segment is a connected group of covered cells, linked by sharing a number,
// together with the numbers constraining it.
type segment struct {
	unknowns []minsweeper.Point
	rules    []rule
}

type rule struct {
	cells []int
	mines int
}

// segments groups the frontier into independent segments with a breadth
// first walk, in row-major order of their first cell.
func segments(b *minsweeper.Board) []*segment {
	var numbers []minsweeper.Point
	seen := make(map[minsweeper.Point]bool)
	var unknowns []minsweeper.Point

	b.Each(func(p minsweeper.Point, c minsweeper.Cell) bool {
		n, ok := c.Number()
		if !ok || n == 0 {
			return true
		}
		flags, hidden := neighbours(b, p)
		if flags == n || len(hidden) == 0 {
			return true
		}
		numbers = append(numbers, p)
		for _, h := range hidden {
			if !seen[h] {
				seen[h] = true
				unknowns = append(unknowns, h)
			}
		}
		return true
	})

	adj := make(map[minsweeper.Point][]minsweeper.Point)
	for _, p := range numbers {
		_, hidden := neighbours(b, p)
		for i := 0; i < len(hidden); i++ {
			for j := i + 1; j < len(hidden); j++ {
				adj[hidden[i]] = append(adj[hidden[i]], hidden[j])
				adj[hidden[j]] = append(adj[hidden[j]], hidden[i])
			}
		}
	}

	sortPoints(unknowns)

	var segs []*segment
	visited := make(map[minsweeper.Point]bool)
	for _, start := range unknowns {
		if visited[start] {
			continue
		}

		seg := &segment{}
		queue := []minsweeper.Point{start}
		visited[start] = true
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			seg.unknowns = append(seg.unknowns, curr)

			for _, n := range adj[curr] {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}

		sortPoints(seg.unknowns)
		local := make(map[minsweeper.Point]int, len(seg.unknowns))
		for i, u := range seg.unknowns {
			local[u] = i
		}

		for _, p := range numbers {
			flags, hidden := neighbours(b, p)
			// a number's covered cells are all linked, so one is enough
			if _, ok := local[hidden[0]]; !ok {
				continue
			}
			n, _ := b.At(p).Number()
			r := rule{mines: n - flags, cells: make([]int, len(hidden))}
			for i, h := range hidden {
				r.cells[i] = local[h]
			}
			seg.rules = append(seg.rules, r)
		}

		segs = append(segs, seg)
	}

	return segs
}

// solve returns how many assignments exist and how often each cell is a mine.
func (seg *segment) solve() (int, []int) {
	counts := make([]int, len(seg.unknowns))
	config := make([]bool, len(seg.unknowns))
	solutions := 0

	var backtrack func(i int)
	backtrack = func(i int) {
		if !seg.valid(config, i) {
			return
		}
		if i == len(seg.unknowns) {
			solutions++
			for c, mine := range config {
				if mine {
					counts[c]++
				}
			}
			return
		}

		config[i] = true
		backtrack(i + 1)
		config[i] = false
		backtrack(i + 1)
	}
	backtrack(0)

	return solutions, counts
}

// valid checks the rules against the first decided cells of config. A rule
// fails once it has too many mines or can no longer get enough.
func (seg *segment) valid(config []bool, decided int) bool {
	for _, r := range seg.rules {
		mines, open := 0, 0
		for _, c := range r.cells {
			switch {
			case c >= decided:
				open++
			case config[c]:
				mines++
			}
		}
		if mines > r.mines || mines+open < r.mines {
			return false
		}
	}
	return true
}

func (seg *segment) certainMove() *minsweeper.Move {
	solutions, counts := seg.solve()
	if solutions == 0 {
		return nil
	}

	for i, count := range counts {
		p := seg.unknowns[i]
		switch count {
		case 0:
			return minsweeper.NewMove(p.X, p.Y, minsweeper.Left).Because(SegmentSafe, seg.unknowns...)
		case solutions:
			return minsweeper.NewMove(p.X, p.Y, minsweeper.Right).Because(SegmentMine, seg.unknowns...)
		}
	}

	return nil
}

func sortPoints(points []minsweeper.Point) {
	sort.Slice(points, func(i, j int) bool { return points[i].Less(points[j]) })
}
