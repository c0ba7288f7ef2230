package moderation

import (
	"sync/atomic"
	"time"

	"github.com/dkazarov/statusbot/internal/domain/registry"
)

// listingTTL is how long a cached listing stays fresh without a write.
const listingTTL = 5 * time.Minute

type listingSnapshot struct {
	records []registry.Record
	takenAt time.Time
}

// listingCache holds the merged user listing as an immutable snapshot.
// Readers never observe a half-updated listing: the whole snapshot is
// swapped atomically, and invalidation just drops the pointer.
type listingCache struct {
	ttl time.Duration
	now func() time.Time
	cur atomic.Pointer[listingSnapshot]
}

func newListingCache(ttl time.Duration, now func() time.Time) *listingCache {
	if now == nil {
		now = time.Now
	}
	return &listingCache{ttl: ttl, now: now}
}

func (c *listingCache) get() ([]registry.Record, bool) {
	snap := c.cur.Load()
	if snap == nil {
		return nil, false
	}
	if c.now().Sub(snap.takenAt) > c.ttl {
		return nil, false
	}
	return snap.records, true
}

func (c *listingCache) put(records []registry.Record) {
	c.cur.Store(&listingSnapshot{records: records, takenAt: c.now()})
}

func (c *listingCache) invalidate() {
	c.cur.Store(nil)
}
