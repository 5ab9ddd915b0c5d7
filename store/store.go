// Package store keeps game records in badger, keyed by short random IDs.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aidarkhanov/nanoid"
	"github.com/denismitr/minsweeper/internal/snapshot"
	"github.com/dgraph-io/badger/v3"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const gamePrefix = "game#"

var ErrNotFound = errors.New("game not found")
var ErrInvalidRecord = errors.New("invalid game record")

// Record is a saved game. The snapshot keeps mines visible so the game can be
// resumed.
type Record struct {
	ID        string            `json:"id"`
	Solver    string            `json:"solver"`
	Snapshot  snapshot.Snapshot `json:"snapshot"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Summary is the part of a record that is safe to list.
type Summary struct {
	ID             string    `json:"id"`
	Solver         string    `json:"solver"`
	Status         string    `json:"status"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Mines          int       `json:"mines"`
	RemainingMines int       `json:"remainingMines"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Options struct {
	// Dir holds the database files. Empty keeps everything in memory.
	Dir    string
	Logger *zerolog.Logger
}

type Store struct {
	db  *badger.DB
	now func() time.Time
}

func Open(opts Options) (*Store, error) {
	if opts.Logger == nil {
		l := zerolog.Nop()
		opts.Logger = &l
	}

	bo := badger.DefaultOptions(opts.Dir).WithLogger(badgerLogger{opts.Logger})
	if opts.Dir == "" {
		bo = bo.WithInMemory(true)
	}

	db, err := badger.Open(bo)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open game store at %q", opts.Dir)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create assigns an ID to r and saves it.
func (s *Store) Create(r *Record) error {
	r.ID = nanoid.New()
	r.CreatedAt = s.now().UTC()
	r.UpdatedAt = r.CreatedAt

	return s.put(r)
}

// Save overwrites an existing record.
func (s *Store) Save(r *Record) error {
	if r.ID == "" {
		return errors.Wrap(ErrInvalidRecord, "record has no id")
	}

	r.UpdatedAt = s.now().UTC()
	return s.put(r)
}

func (s *Store) put(r *Record) error {
	encoded, err := json.Marshal(r)
	if err != nil {
		return errors.Wrapf(err, "could not encode game %s", r.ID)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(r.ID), encoded)
	})

	return errors.Wrapf(err, "could not save game %s", r.ID)
}

func (s *Store) Get(id string) (*Record, error) {
	r := new(Record)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, r)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "id %s", id)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "could not load game %s", id)
	}

	return r, nil
}

func (s *Store) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})

	return errors.Wrapf(err, "could not delete game %s", id)
}

// List summarises the stored games, optionally only those with the given
// status. Records are filtered before they are decoded.
func (s *Store) List(status string) ([]Summary, error) {
	var result []Summary

	err := s.db.View(func(txn *badger.Txn) error {
		iter := txn.NewIterator(badger.IteratorOptions{
			Prefix: []byte(gamePrefix),
		})
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			err := item.Value(func(val []byte) error {
				if status != "" && gjson.GetBytes(val, "snapshot.status").String() != status {
					return nil
				}

				var r Record
				if err := json.Unmarshal(val, &r); err != nil {
					return errors.Wrapf(ErrInvalidRecord, "key %s: %v", item.Key(), err)
				}

				sum, err := r.Summary()
				if err != nil {
					return err
				}

				result = append(result, sum)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, errors.Wrap(err, "could not list games")
	}

	return result, nil
}

func (r *Record) Summary() (Summary, error) {
	var sum Summary
	if err := copier.Copy(&sum, r); err != nil {
		return sum, errors.Wrapf(err, "could not summarise game %s", r.ID)
	}

	if err := copier.Copy(&sum, &r.Snapshot); err != nil {
		return sum, errors.Wrapf(err, "could not summarise game %s", r.ID)
	}

	return sum, nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

// badgerLogger routes badger's logs to zerolog.
type badgerLogger struct {
	l *zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Str("component", "badger").Msg(trim(format, args))
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Str("component", "badger").Msg(trim(format, args))
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Str("component", "badger").Msg(trim(format, args))
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Trace().Str("component", "badger").Msg(trim(format, args))
}

func trim(format string, args []interface{}) string {
	msg := fmt.Sprintf(format, args...)
	for len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	return msg
}
