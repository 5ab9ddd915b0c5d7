package lru

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

var ErrIllegalCapacity = errors.New("illegal lru cache capacity")
var ErrInvalidSharding = errors.New("invalid sharding")

// OnEvict is called with the shard lock held, it must not call back into the cache.
type OnEvict func(k uint64, v []byte)

// Cache stores encoded values under board fingerprints.
type Cache interface {
	Add(key uint64, value []byte) bool
	Get(key uint64) ([]byte, bool)
	Remove(key uint64)
	Count() int
	// Bytes is the total size of the cached values.
	Bytes() uint64
}

// ShardedCache splits the byte budget over shards picked by the xxhash of the
// key, so that lookups for different boards rarely contend on a lock.
type ShardedCache struct {
	maxBytes uint64
	count    int64
	shards   []*shard
}

var _ Cache = (*ShardedCache)(nil)

func NewShardedCache(shards int, maxTotalBytes uint64, onEvict OnEvict) (*ShardedCache, error) {
	if shards < 1 {
		return nil, errors.Wrapf(ErrInvalidSharding, "%d shards", shards)
	}

	if maxTotalBytes < uint64(shards) {
		return nil, errors.Wrapf(ErrIllegalCapacity, "%d bytes over %d shards", maxTotalBytes, shards)
	}

	c := &ShardedCache{
		maxBytes: maxTotalBytes,
		shards:   make([]*shard, shards),
	}

	perShard := maxTotalBytes / uint64(shards)
	for i := range c.shards {
		c.shards[i] = newShard(perShard, func(k uint64, v []byte) {
			atomic.AddInt64(&c.count, -1)
			if onEvict != nil {
				onEvict(k, v)
			}
		})
	}

	return c, nil
}

// Add stores value under key and reports whether older entries were evicted
// to make room.
func (c *ShardedCache) Add(key uint64, value []byte) bool {
	evicted, added := c.shardFor(key).add(key, value)
	if added {
		atomic.AddInt64(&c.count, 1)
	}
	return evicted
}

func (c *ShardedCache) Get(key uint64) ([]byte, bool) {
	return c.shardFor(key).get(key)
}

func (c *ShardedCache) Remove(key uint64) {
	if c.shardFor(key).remove(key) {
		atomic.AddInt64(&c.count, -1)
	}
}

func (c *ShardedCache) Count() int {
	return int(atomic.LoadInt64(&c.count))
}

func (c *ShardedCache) Bytes() uint64 {
	var total uint64
	for _, s := range c.shards {
		total += s.size()
	}
	return total
}

func (c *ShardedCache) shardFor(key uint64) *shard {
	var bs [8]byte
	binary.LittleEndian.PutUint64(bs[:], key)
	return c.shards[xxhash.Sum64(bs[:])%uint64(len(c.shards))]
}
