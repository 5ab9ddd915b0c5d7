package minsweeper

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidSize = errors.New("invalid size")
var ErrTooManyMines = errors.New("too many mines")
var ErrTooFewMines = errors.New("too few mines")
var ErrUnknownConventionalSize = errors.New("unknown conventional size")

// BoardSize describes the dimensions of a board and how many mines it holds.
type BoardSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Mines  int `json:"mines"`
}

func NewBoardSize(width, height, mines int) (BoardSize, error) {
	s := BoardSize{Width: width, Height: height, Mines: mines}
	if err := s.Validate(); err != nil {
		return BoardSize{}, err
	}

	return s, nil
}

// Validate checks that the board has at least one cell, at least one mine
// and at least one safe cell.
func (s BoardSize) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.Wrapf(ErrInvalidSize, "%dx%d", s.Width, s.Height)
	}

	if s.Mines >= s.Width*s.Height {
		return errors.Wrapf(ErrTooManyMines, "%d mines on %dx%d", s.Mines, s.Width, s.Height)
	}

	if s.Mines <= 0 {
		return errors.Wrapf(ErrTooFewMines, "%d mines", s.Mines)
	}

	return nil
}

func (s BoardSize) Cells() int {
	return s.Width * s.Height
}

// ConventionalSize is one of the classic difficulty presets.
type ConventionalSize string

const (
	Beginner     ConventionalSize = "beginner"
	Intermediate ConventionalSize = "intermediate"
	Expert       ConventionalSize = "expert"
)

var conventionalSizes = map[ConventionalSize]BoardSize{
	Beginner:     {Width: 9, Height: 9, Mines: 10},
	Intermediate: {Width: 16, Height: 16, Mines: 40},
	Expert:       {Width: 30, Height: 16, Mines: 99},
}

func (c ConventionalSize) Size() BoardSize {
	return conventionalSizes[c]
}

func ParseConventionalSize(name string) (ConventionalSize, error) {
	c := ConventionalSize(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := conventionalSizes[c]; !ok {
		return "", errors.Wrapf(ErrUnknownConventionalSize, "%q", name)
	}

	return c, nil
}
