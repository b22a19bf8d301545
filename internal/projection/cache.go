package projection

import (
	"container/list"
	"sync"
)

// SnapshotCache is a thread-safe LRU cache of snapshots keyed by sensor ID.
type SnapshotCache struct {
	mu       sync.Mutex
	capacity int
	cache    map[string]*list.Element
	order    *list.List
	gens     map[string]uint64
}

type cacheEntry struct {
	sensorID string
	snapshot *Snapshot
}

// NewSnapshotCache creates a cache holding at most capacity snapshots.
func NewSnapshotCache(capacity int) *SnapshotCache {
	if capacity < 1 {
		capacity = 1
	}
	return &SnapshotCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		order:    list.New(),
		gens:     make(map[string]uint64),
	}
}

// Get returns the cached snapshot for sensorID, or nil.
func (c *SnapshotCache) Get(sensorID string) *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.cache[sensorID]
	if !exists {
		return nil
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).snapshot
}

// Generation returns the invalidation counter of sensorID.
func (c *SnapshotCache) Generation(sensorID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[sensorID]
}

// PutIf stores snap only if its sensor was not invalidated since gen was read.
func (c *SnapshotCache) PutIf(snap *Snapshot, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[snap.SensorID] != gen {
		return false
	}
	c.put(snap)
	return true
}

// put stores snap, evicting the least recently used snapshot if full.
func (c *SnapshotCache) put(snap *Snapshot) {
	if elem, exists := c.cache[snap.SensorID]; exists {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).snapshot = snap
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			delete(c.cache, oldest.Value.(*cacheEntry).sensorID)
			c.order.Remove(oldest)
		}
	}

	c.cache[snap.SensorID] = c.order.PushFront(&cacheEntry{sensorID: snap.SensorID, snapshot: snap})
}

// Invalidate drops the snapshot of sensorID and bumps its generation.
func (c *SnapshotCache) Invalidate(sensorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[sensorID]++

	if elem, exists := c.cache[sensorID]; exists {
		delete(c.cache, sensorID)
		c.order.Remove(elem)
	}
}

// Len returns the number of cached snapshots.
func (c *SnapshotCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
