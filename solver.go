package minsweeper

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownAction = errors.New("unknown click action")

type Action int8

const (
	Left Action = iota
	Right
)

func (a Action) String() string {
	if a == Right {
		return "right"
	}
	return "left"
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "left":
		*a = Left
	case "right":
		*a = Right
	default:
		return errors.Wrapf(ErrUnknownAction, "%q", text)
	}
	return nil
}

type Click struct {
	Point  Point  `json:"point"`
	Action Action `json:"action"`
}

// Logic names the rule a solver applied to find a move.
type Logic interface {
	Description() string
}

// Reason explains a move: the logic used and the cells that justify it.
type Reason struct {
	Logic   Logic
	Related []Point
}

// Move is a set of clicks a solver is certain about.
type Move struct {
	Clicks []Click
	Reason *Reason
}

func NewMove(x, y int, action Action) *Move {
	return &Move{Clicks: []Click{{Point: Point{X: x, Y: y}, Action: action}}}
}

// Because attaches a reason to the move.
func (m *Move) Because(logic Logic, related ...Point) *Move {
	m.Reason = &Reason{Logic: logic, Related: related}
	return m
}

// SortClicks orders the clicks row by row for reproducible output.
func (m *Move) SortClicks() *Move {
	sort.Slice(m.Clicks, func(i, j int) bool {
		a, b := m.Clicks[i], m.Clicks[j]
		if a.Point != b.Point {
			return a.Point.Less(b.Point)
		}
		return a.Action < b.Action
	})
	return m
}

func (m *Move) String() string {
	var sb strings.Builder
	for i, c := range m.Clicks {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Action.String())
		sb.WriteByte('(')
		sb.WriteString(strconv.Itoa(c.Point.X))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(c.Point.Y))
		sb.WriteByte(')')
	}
	if m.Reason != nil && m.Reason.Logic != nil {
		sb.WriteString(": ")
		sb.WriteString(m.Reason.Logic.Description())
	}
	return sb.String()
}

type Result int8

const (
	Resigned Result = iota
	Solved
	Failed
)

func (r Result) String() string {
	switch r {
	case Solved:
		return "won"
	case Failed:
		return "lost"
	default:
		return "resigned"
	}
}

// Solver finds moves that are certain to be correct. Solvers never guess:
// Solve returns nil when no certain move exists.
//
// A solver used to generate games for RandomGame is run many times per
// generated board, so it should resign rather than spend seconds on a board.
type Solver interface {
	Solve(state GameState) *Move
	Name() string
	Description() string
}

// Player is implemented by solvers that decide the result of a game
// differently from the default loop.
type Player interface {
	Play(g Minsweeper) Result
}

// Run plays g to completion with s.
func Run(s Solver, g Minsweeper) Result {
	if p, ok := s.(Player); ok {
		return p.Play(g)
	}
	return Play(s, g)
}

// Play is the default loop: apply moves until the game ends or the solver
// has nothing certain left.
func Play(s Solver, g Minsweeper) Result {
	state := g.GameState()
	for state.Status == Playing {
		move := s.Solve(state)
		if move == nil || len(move.Clicks) == 0 {
			break
		}
		state = Apply(g, move)
	}

	return ResultOf(state.Status)
}

// Apply performs every click of the move and returns the last state.
func Apply(g Minsweeper, m *Move) GameState {
	state := g.GameState()
	for _, c := range m.Clicks {
		if state.Status != Playing {
			break
		}
		switch c.Action {
		case Left:
			state = g.LeftClick(c.Point.X, c.Point.Y)
		case Right:
			state = g.RightClick(c.Point.X, c.Point.Y)
		}
	}
	return state
}

// ResultOf maps a final status to a result. A game that is still playing, or
// was never started, counts as resigned.
func ResultOf(status GameStatus) Result {
	switch status {
	case Won:
		return Solved
	case Lost:
		return Failed
	default:
		return Resigned
	}
}
