package snapshot

import (
	"sort"
	"sync"
	"sync/atomic"

	"wardaudit/internal/compliance"
	"wardaudit/pkg/domain"
)

// Entry is a cached snapshot and the cache version at which it was stored.
type Entry struct {
	Snapshot *compliance.Snapshot
	Version  uint64
}

type slot struct {
	entry atomic.Pointer[Entry]
}

// Cache is a versioned table of per-ward snapshot slots.
//
// Readers load the index and a slot without locking. Replacing an existing
// ward's snapshot is a single atomic store. Adding a ward copies the index
// under mu, so the index a reader holds never changes underneath it.
type Cache struct {
	mu      sync.Mutex
	index   atomic.Pointer[map[domain.WardCode]*slot]
	version atomic.Uint64
}

func NewCache() *Cache {
	c := &Cache{}
	empty := make(map[domain.WardCode]*slot)
	c.index.Store(&empty)
	return c
}

// Get returns the current entry for a ward.
func (c *Cache) Get(code domain.WardCode) (*Entry, bool) {
	s, ok := (*c.index.Load())[code]
	if !ok {
		return nil, false
	}
	e := s.entry.Load()
	return e, e != nil
}

// Put swaps in a new snapshot for its ward and returns the entry now held.
// A snapshot computed before the held one is dropped and the held entry is
// returned, matching the durable store's computed_at guard.
func (c *Cache) Put(snap *compliance.Snapshot) *Entry {
	if s, ok := (*c.index.Load())[snap.WardCode]; ok {
		return c.swap(s, snap)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	current := *c.index.Load()
	if s, ok := current[snap.WardCode]; ok {
		return c.swap(s, snap)
	}
	next := make(map[domain.WardCode]*slot, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	s := &slot{}
	e := &Entry{Snapshot: snap, Version: c.version.Add(1)}
	s.entry.Store(e)
	next[snap.WardCode] = s
	c.index.Store(&next)
	return e
}

func (c *Cache) swap(s *slot, snap *compliance.Snapshot) *Entry {
	for {
		held := s.entry.Load()
		if held != nil && snap.ComputedAt.Before(held.Snapshot.ComputedAt) {
			return held
		}
		e := &Entry{Snapshot: snap, Version: c.version.Add(1)}
		if s.entry.CompareAndSwap(held, e) {
			return e
		}
	}
}

// Snapshots returns every cached snapshot ordered by ward code.
func (c *Cache) Snapshots() []*compliance.Snapshot {
	idx := *c.index.Load()
	out := make([]*compliance.Snapshot, 0, len(idx))
	for _, s := range idx {
		if e := s.entry.Load(); e != nil {
			out = append(out, e.Snapshot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WardCode < out[j].WardCode })
	return out
}

// Len is the number of wards with a snapshot.
func (c *Cache) Len() int {
	return len(*c.index.Load())
}

// Version is the number of swaps performed so far.
func (c *Cache) Version() uint64 {
	return c.version.Load()
}
