// Package solvers names every solver the module ships so that the CLI and the
// HTTP API can pick one from a string.
package solvers

import (
	"sort"
	"strings"

	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/solver/mia"
	"github.com/denismitr/minsweeper/solver/start"
	"github.com/denismitr/minsweeper/solver/tank"
	"github.com/pkg/errors"
)

// DefaultName is the solver used when none is asked for.
const DefaultName = "mia"

var ErrUnknownSolver = errors.New("unknown solver")

var registry = map[string]minsweeper.Solver{
	"beginner":          mia.Beginner{},
	"intermediate":      mia.Intermediate{},
	"expert":            mia.Expert{},
	"mia":               mia.Default(),
	"intermediate-only": mia.IntermediateOnly(),
	"expert-only":       mia.ExpertOnly(),
	"safe-start":        start.SafeStart{},
	"zero-start":        start.ZeroStart{},
	"tank":              tank.New(),
}

// Info describes a registered solver.
type Info struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Get looks a solver up by key. Keys are case insensitive and an empty key
// gives the default solver.
func Get(key string) (minsweeper.Solver, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		key = DefaultName
	}

	s, ok := registry[key]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSolver, "%q", key)
	}

	return s, nil
}

// Lookup is Get for optional solvers: "none" yields a nil solver.
func Lookup(key string) (minsweeper.Solver, error) {
	if strings.EqualFold(strings.TrimSpace(key), "none") {
		return nil, nil
	}
	return Get(key)
}

func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func List() []Info {
	keys := Keys()
	infos := make([]Info, len(keys))
	for i, k := range keys {
		s := registry[k]
		infos[i] = Info{Key: k, Name: s.Name(), Description: s.Description()}
	}
	return infos
}
