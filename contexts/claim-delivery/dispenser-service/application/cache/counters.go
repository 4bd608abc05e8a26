package cache

import "sync"

// PoppedCounters is the process-local view of "slots handed out so far" per
// dispenser. It is lazily hydrated from the persisted counter on first use and
// written through after every successful allocation, so repeated pops and the
// dashboard stats read skip a persistence round trip. The map has no eviction:
// the key space grows by one entry per dispenser ever popped, not per request.
//
// Correctness under concurrent pops does not rest on this cache; the
// persistence layer's atomic increment is the arbiter of slot numbers.
type PoppedCounters struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewPoppedCounters() *PoppedCounters {
	return &PoppedCounters{counters: make(map[string]int)}
}

// Hydrate seeds the counter from the persisted value if the dispenser has not
// been seen yet, and returns the cached value.
func (c *PoppedCounters) Hydrate(dispenserID string, persisted int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.counters[dispenserID]; !ok {
		c.counters[dispenserID] = persisted
	}
	return c.counters[dispenserID]
}

// Set records the counter value after a successful allocation. Values only
// move forward; a stale write from a lost race never rolls the cache back.
func (c *PoppedCounters) Set(dispenserID string, popped int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if popped > c.counters[dispenserID] {
		c.counters[dispenserID] = popped
	}
}

// Get returns the cached counter, reporting whether the dispenser has been
// hydrated.
func (c *PoppedCounters) Get(dispenserID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	popped, ok := c.counters[dispenserID]
	return popped, ok
}
