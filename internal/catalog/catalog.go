// Package catalog keeps the searchable list of area features discovered
// while the user moves the map.
package catalog

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/greenmap/internal/feature"
)

// Entry is one catalogued area.
type Entry struct {
	Identity string      `json:"identity"`
	Feature  feature.Raw `json:"feature"`
}

// Catalog is an insertion-ordered, deduplicated set of area features.
// Entries are never updated or evicted: the first copy seen for an
// identity is kept even if a later viewport returns richer properties.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Entry
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Seed replaces the catalog content with the deduplicated areas of fs.
func (c *Catalog) Seed(fs []feature.Raw) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = c.order[:0]
	c.entries = make(map[string]Entry, len(fs))
	added := c.add(fs)

	log.Debug().Int("entries", added).Msg("Catalog seeded")
}

// Merge appends the areas of fs whose identity is not yet known and
// returns how many entries were added.
func (c *Catalog) Merge(fs []feature.Raw) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := c.add(fs)
	if added > 0 {
		log.Debug().
			Int("added", added).
			Int("entries", len(c.order)).
			Msg("Catalog extended")
	}
	return added
}

func (c *Catalog) add(fs []feature.Raw) int {
	added := 0
	for _, f := range fs {
		if feature.KindOf(f) == feature.KindTree {
			continue
		}

		key := feature.Key(f)
		if _, ok := c.entries[key]; ok {
			continue
		}

		c.entries[key] = Entry{Identity: key, Feature: f}
		c.order = append(c.order, key)
		added++
	}
	return added
}

// Filter returns, in insertion order, the entries whose title, description
// or identifier contains query, ignoring case. An empty query returns
// every entry.
func (c *Catalog) Filter(query string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry, 0, len(c.order))
	for _, key := range c.order {
		e := c.entries[key]
		if feature.Matches(e.Feature, query) {
			out = append(out, e)
		}
	}
	return out
}

// Get looks up an entry by identity.
func (c *Catalog) Get(identity string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[identity]
	return e, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
