package selection

import (
	"sync"

	"github.com/paulmach/orb/geojson"

	"github.com/woozymasta/greenmap/internal/geo"
)

// HighlightSink receives the content of the two highlight channels.
// Updating one channel must leave the other untouched.
type HighlightSink interface {
	SetAreaHighlight(fc *geojson.FeatureCollection)
	SetTreeHighlight(fc *geojson.FeatureCollection)
}

// Channels is an in-memory HighlightSink that keeps the latest collection
// of each channel for the map client to poll.
type Channels struct {
	mu   sync.RWMutex
	area *geojson.FeatureCollection
	tree *geojson.FeatureCollection
}

// NewChannels returns a sink with both channels empty.
func NewChannels() *Channels {
	return &Channels{
		area: geo.EmptyCollection(),
		tree: geo.EmptyCollection(),
	}
}

// SetAreaHighlight implements HighlightSink.
func (c *Channels) SetAreaHighlight(fc *geojson.FeatureCollection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.area = orEmpty(fc)
}

// SetTreeHighlight implements HighlightSink.
func (c *Channels) SetTreeHighlight(fc *geojson.FeatureCollection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree = orEmpty(fc)
}

// Area returns the area channel.
func (c *Channels) Area() *geojson.FeatureCollection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.area
}

// Tree returns the tree channel.
func (c *Channels) Tree() *geojson.FeatureCollection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree
}

func orEmpty(fc *geojson.FeatureCollection) *geojson.FeatureCollection {
	if fc == nil {
		return geo.EmptyCollection()
	}
	return fc
}

type discard struct{}

func (discard) SetAreaHighlight(*geojson.FeatureCollection) {}
func (discard) SetTreeHighlight(*geojson.FeatureCollection) {}
