package moderation

import (
	"testing"
	"time"

	"github.com/dkazarov/statusbot/internal/domain/registry"
)

func TestListingCacheTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }
	c := newListingCache(5*time.Minute, clock)

	if _, ok := c.get(); ok {
		t.Fatal("empty cache must miss")
	}

	records := []registry.Record{{Username: "alice", Status: registry.StatusVerify}}
	c.put(records)

	got, ok := c.get()
	if !ok {
		t.Fatal("fresh cache must hit")
	}
	if len(got) != 1 || got[0].Username != "alice" {
		t.Errorf("got %v", got)
	}

	// within the TTL window the same snapshot is served
	now = now.Add(4 * time.Minute)
	again, ok := c.get()
	if !ok {
		t.Fatal("cache must still be fresh")
	}
	if &again[0] != &got[0] {
		t.Error("reads within TTL must return the same snapshot")
	}

	// past the TTL the entry is stale even without a write
	now = now.Add(2 * time.Minute)
	if _, ok := c.get(); ok {
		t.Error("stale cache must miss")
	}
}

func TestListingCacheInvalidate(t *testing.T) {
	c := newListingCache(5*time.Minute, nil)
	c.put([]registry.Record{{Username: "alice", Status: registry.StatusVerify}})
	c.invalidate()
	if _, ok := c.get(); ok {
		t.Error("invalidated cache must miss")
	}
}
