package lru

// NullCache remembers nothing.
type NullCache struct{}

var _ Cache = NullCache{}

func (NullCache) Add(uint64, []byte) bool { return false }

func (NullCache) Get(uint64) ([]byte, bool) { return nil, false }

func (NullCache) Remove(uint64) {}

func (NullCache) Count() int { return 0 }

func (NullCache) Bytes() uint64 { return 0 }
