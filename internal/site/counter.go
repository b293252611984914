package site

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// counterBaseline seeds the visitor-facing counter when the stats file is
// absent or unreadable.
const counterBaseline = 149

type stats struct {
	SitesCreated int `json:"sites_created"`
}

// Counter is the persisted sites-created counter. The original kept a
// read-modify-write cycle with no lock; here the cycle is mutex-guarded so
// two simultaneous generations cannot lose an increment.
type Counter struct {
	mu   sync.Mutex
	path string
}

// NewCounter creates a counter persisted at the given path.
func NewCounter(path string) *Counter {
	return &Counter{path: path}
}

// Value reads the current count, falling back to the baseline.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load().SitesCreated
}

// Increment bumps the count by one and persists it, returning the new value.
func (c *Counter) Increment() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.load()
	s.SitesCreated++

	raw, err := json.Marshal(s)
	if err != nil {
		return s.SitesCreated, fmt.Errorf("marshal stats: %w", err)
	}
	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		return s.SitesCreated, fmt.Errorf("write stats file: %w", err)
	}
	return s.SitesCreated, nil
}

func (c *Counter) load() stats {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return stats{SitesCreated: counterBaseline}
	}
	var s stats
	if err := json.Unmarshal(raw, &s); err != nil || s.SitesCreated < 0 {
		return stats{SitesCreated: counterBaseline}
	}
	return s
}
