package texture

import (
	"fmt"
	"sync"

	"github.com/Faultbox/cortex/internal/engine/gpu"
)

// Decoder loads an image file.
type Decoder func(path string) (gpu.Image, error)

type entry struct {
	slot int32
	tex  gpu.Texture
	err  error
}

// Cache uploads each texture path once and hands the same handle to every
// material that references it. Failed loads are remembered so a missing
// file is not re-read every refresh.
type Cache struct {
	Decode Decoder

	mu      sync.RWMutex
	entries map[string]entry
	hits    int
	misses  int
}

// NewCache creates a cache that decodes files with DecodeFile.
func NewCache() *Cache {
	return &Cache{
		Decode:  DecodeFile,
		entries: make(map[string]entry),
	}
}

// Load returns the texture for path, decoding and uploading it on first use.
// A failed load returns a zero handle and the error. Must run on the
// graphics thread.
func (c *Cache) Load(dev gpu.Device, path string, slot int32) (gpu.Texture, error) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return e.tex, e.err
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()

	e = entry{slot: slot}
	img, err := c.Decode(path)
	if err == nil {
		_, err = FormatFor(img.Channels)
	}
	if err == nil {
		e.tex, err = dev.CreateTexture(img)
	}
	if err != nil {
		e.err = fmt.Errorf("load texture %s: %w", path, err)
	}

	c.mu.Lock()
	c.entries[path] = e
	c.mu.Unlock()
	return e.tex, e.err
}

// Slot returns the slot recorded when path was first loaded.
func (c *Cache) Slot(path string) (int32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	return e.slot, ok
}

// Len returns the number of cached paths, failures included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Release deletes every uploaded texture and empties the cache.
func (c *Cache) Release(dev gpu.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.tex != 0 {
			dev.DeleteTexture(e.tex)
		}
	}
	c.entries = make(map[string]entry)
}

// Stats returns cache hit/miss statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
