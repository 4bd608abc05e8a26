package cache

import (
	"strings"
	"sync"
)

// HandleWhitelist is the in-memory lookup for whitelisted social handles,
// loaded in bulk per dispenser so proof resolution never pays a database read
// for the membership check. Matching is case-insensitive: values are
// lowercased on load and on lookup.
type HandleWhitelist struct {
	mu      sync.RWMutex
	handles map[string]map[string]struct{}
}

func NewHandleWhitelist() *HandleWhitelist {
	return &HandleWhitelist{handles: make(map[string]map[string]struct{})}
}

// Load replaces the cached handle set for a dispenser.
func (c *HandleWhitelist) Load(dispenserID string, handles []string) {
	set := make(map[string]struct{}, len(handles))
	for _, handle := range handles {
		handle = strings.ToLower(strings.TrimSpace(handle))
		if handle != "" {
			set[handle] = struct{}{}
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles[dispenserID] = set
}

// Contains reports whether the handle is whitelisted for the dispenser.
func (c *HandleWhitelist) Contains(dispenserID, handle string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.handles[dispenserID]
	if !ok {
		return false
	}
	_, ok = set[strings.ToLower(strings.TrimSpace(handle))]
	return ok
}

// Loaded reports whether a handle set has been loaded for the dispenser.
func (c *HandleWhitelist) Loaded(dispenserID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.handles[dispenserID]
	return ok
}
