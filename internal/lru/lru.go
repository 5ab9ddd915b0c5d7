package lru

import (
	"container/list"
	"sync"
)

type shard struct {
	mu         sync.Mutex
	totalBytes uint64
	maxBytes   uint64
	order      *list.List
	elems      map[uint64]*list.Element
	onEvict    OnEvict
}

type entry struct {
	key   uint64
	value []byte
}

func newShard(maxBytes uint64, onEvict OnEvict) *shard {
	return &shard{
		maxBytes: maxBytes,
		order:    list.New(),
		elems:    make(map[uint64]*list.Element),
		onEvict:  onEvict,
	}
}

func (s *shard) get(key uint64) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.elems[key]
	if !ok {
		return nil, false
	}

	s.order.MoveToFront(elem)
	return elem.Value.(*entry).value, true
}

// add stores the value, evicting the least recently used entries until it
// fits. A value larger than the shard is not stored at all.
func (s *shard) add(key uint64, value []byte) (evicted, added bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := uint64(len(value))
	if size > s.maxBytes {
		return false, false
	}

	if elem, ok := s.elems[key]; ok {
		s.removeUnderLock(elem)
		added = false
	} else {
		added = true
	}

	for s.totalBytes+size > s.maxBytes {
		oldest := s.order.Back()
		if oldest == nil {
			break
		}
		kv := s.removeUnderLock(oldest)
		evicted = true
		if s.onEvict != nil {
			s.onEvict(kv.key, kv.value)
		}
	}

	s.elems[key] = s.order.PushFront(&entry{key: key, value: value})
	s.totalBytes += size
	return evicted, added
}

func (s *shard) remove(key uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.elems[key]
	if !ok {
		return false
	}

	s.removeUnderLock(elem)
	return true
}

func (s *shard) size() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalBytes
}

func (s *shard) keys() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]uint64, 0, len(s.elems))
	for e := s.order.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*entry).key)
	}
	return keys
}

func (s *shard) removeUnderLock(elem *list.Element) *entry {
	s.order.Remove(elem)
	kv := elem.Value.(*entry)
	delete(s.elems, kv.key)
	s.totalBytes -= uint64(len(kv.value))
	return kv
}
