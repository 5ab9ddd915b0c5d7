// Package hint answers "what should I play next" for a game state, caching
// the answer of each solver per board.
package hint

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/internal/lru"
	"github.com/pbnjay/memory"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	defaultShards = 16
	minCacheBytes = 1 << 20
	maxCacheBytes = 64 << 20
)

var ErrNotPlaying = errors.New("game is not being played")
var ErrCorruptedHint = errors.New("corrupted cached hint")

// Hint is a move in a form that survives encoding: the logic is kept by name.
type Hint struct {
	Solver      string             `json:"solver"`
	Clicks      []minsweeper.Click `json:"clicks"`
	Logic       string             `json:"logic,omitempty"`
	Description string             `json:"description,omitempty"`
	Related     []minsweeper.Point `json:"related,omitempty"`
}

type Config struct {
	// MaxBytes caps the cache. 0 sizes it from the machine memory.
	MaxBytes uint64
	Shards   int
	// Disabled turns caching off, every hint is solved again.
	Disabled bool
	Logger   *zerolog.Logger
}

type Service struct {
	cache  lru.Cache
	logger *zerolog.Logger
	hits   int64
	misses int64
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		l := zerolog.Nop()
		cfg.Logger = &l
	}

	s := &Service{logger: cfg.Logger}
	if cfg.Disabled {
		s.cache = lru.NullCache{}
		return s, nil
	}

	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultCacheBytes()
	}

	if cfg.Shards <= 0 {
		cfg.Shards = defaultShards
	}

	cache, err := lru.NewShardedCache(cfg.Shards, cfg.MaxBytes, func(k uint64, _ []byte) {
		cfg.Logger.Debug().Uint64("key", k).Msg("hint evicted")
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create hint cache")
	}

	s.cache = cache
	return s, nil
}

// DefaultCacheBytes is a 1/256 share of the machine memory, kept between
// 1MiB and 64MiB.
func DefaultCacheBytes() uint64 {
	n := memory.TotalMemory() / 256
	switch {
	case n < minCacheBytes:
		return minCacheBytes
	case n > maxCacheBytes:
		return maxCacheBytes
	}
	return n
}

// Hint returns the next certain move of solver for state, or nil if the
// solver has none.
func (s *Service) Hint(solver minsweeper.Solver, state minsweeper.GameState) (*Hint, error) {
	if state.Status != minsweeper.Playing || state.Board == nil {
		return nil, errors.Wrapf(ErrNotPlaying, "status %s", state.Status)
	}

	key := cacheKey(solver.Name(), state)
	if raw, ok := s.cache.Get(key); ok {
		atomic.AddInt64(&s.hits, 1)
		var h *Hint
		if err := json.Unmarshal(raw, &h); err != nil {
			s.cache.Remove(key)
			return nil, errors.Wrap(ErrCorruptedHint, err.Error())
		}
		return h, nil
	}

	atomic.AddInt64(&s.misses, 1)
	h := newHint(solver, solver.Solve(state.Clone()))
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, errors.Wrap(err, "could not encode hint")
	}

	if s.cache.Add(key, raw) {
		s.logger.Debug().Str("solver", solver.Name()).Msg("hint cache is full")
	}

	return h, nil
}

// Stats describes the hint cache.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
	Bytes   uint64
}

func (s *Service) Stats() Stats {
	return Stats{
		Hits:    atomic.LoadInt64(&s.hits),
		Misses:  atomic.LoadInt64(&s.misses),
		Entries: s.cache.Count(),
		Bytes:   s.cache.Bytes(),
	}
}

func newHint(solver minsweeper.Solver, m *minsweeper.Move) *Hint {
	if m == nil {
		return nil
	}

	h := &Hint{
		Solver: solver.Name(),
		Clicks: append([]minsweeper.Click(nil), m.Clicks...),
	}

	if m.Reason != nil {
		if len(m.Reason.Related) > 0 {
			h.Related = append([]minsweeper.Point(nil), m.Reason.Related...)
		}
		if m.Reason.Logic != nil {
			h.Description = m.Reason.Logic.Description()
			if named, ok := m.Reason.Logic.(fmt.Stringer); ok {
				h.Logic = named.String()
			}
		}
	}

	return h
}

// cacheKey mixes the solver name into the board fingerprint. Remaining mines
// matter to solvers counting them, so they are mixed in too.
func cacheKey(solver string, state minsweeper.GameState) uint64 {
	var bs [16]byte
	binary.LittleEndian.PutUint64(bs[:8], state.Board.Fingerprint())
	binary.LittleEndian.PutUint64(bs[8:], uint64(state.RemainingMines))

	d := xxhash.New()
	_, _ = d.WriteString(solver)
	_, _ = d.Write(bs[:])
	return d.Sum64()
}
