// Package pointset keeps board points in row-major order on a b-tree so that
// solvers iterate them deterministically.
package pointset

import (
	"strconv"
	"strings"

	"github.com/denismitr/minsweeper"
	"github.com/tidwall/btree"
)

func byRowMajor(a, b interface{}) bool {
	return a.(minsweeper.Point).Less(b.(minsweeper.Point))
}

type Set struct {
	tr *btree.BTree
}

func New(points ...minsweeper.Point) *Set {
	s := &Set{tr: btree.NewNonConcurrent(byRowMajor)}
	for _, p := range points {
		s.tr.Set(p)
	}
	return s
}

// Add reports whether p was not in the set yet.
func (s *Set) Add(p minsweeper.Point) bool {
	return s.tr.Set(p) == nil
}

func (s *Set) Has(p minsweeper.Point) bool {
	return s.tr.Get(p) != nil
}

func (s *Set) Len() int {
	return s.tr.Len()
}

func (s *Set) Empty() bool {
	return s.tr.Len() == 0
}

// Each walks the points in row-major order until fn returns false.
func (s *Set) Each(fn func(p minsweeper.Point) bool) {
	s.tr.Ascend(nil, func(item interface{}) bool {
		return fn(item.(minsweeper.Point))
	})
}

func (s *Set) Points() []minsweeper.Point {
	points := make([]minsweeper.Point, 0, s.tr.Len())
	s.Each(func(p minsweeper.Point) bool {
		points = append(points, p)
		return true
	})
	return points
}

// ContainsAll reports whether other is a subset of s.
func (s *Set) ContainsAll(other *Set) bool {
	if other.Len() > s.Len() {
		return false
	}

	all := true
	other.Each(func(p minsweeper.Point) bool {
		all = s.Has(p)
		return all
	})
	return all
}

// Difference returns the points of s that are not in other.
func (s *Set) Difference(other *Set) *Set {
	d := New()
	s.Each(func(p minsweeper.Point) bool {
		if !other.Has(p) {
			d.tr.Set(p)
		}
		return true
	})
	return d
}

// Key is a canonical text form, equal for equal sets.
func (s *Set) Key() string {
	var sb strings.Builder
	s.Each(func(p minsweeper.Point) bool {
		if sb.Len() > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.Itoa(p.X))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(p.Y))
		return true
	})
	return sb.String()
}

func (s *Set) String() string {
	return "{" + s.Key() + "}"
}
