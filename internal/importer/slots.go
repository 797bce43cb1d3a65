package importer

import "sync/atomic"

// SlotCounter hands out texture slots. It is safe for concurrent imports and
// never returns the same slot twice.
type SlotCounter struct {
	next atomic.Int32
}

// Claim returns the next free slot.
func (c *SlotCounter) Claim() int32 {
	return c.next.Add(1) - 1
}

// Claimed returns how many slots have been handed out.
func (c *SlotCounter) Claimed() int32 {
	return c.next.Load()
}
