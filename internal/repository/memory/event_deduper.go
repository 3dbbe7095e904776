package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Slack retries event deliveries for a few minutes; seen ids only need to
// outlive that window.
const dedupWindow = 10 * time.Minute

type EventDeduper struct {
	cache *cache.Cache
}

func NewEventDeduper() *EventDeduper {
	return &EventDeduper{
		cache: cache.New(dedupWindow, 5*time.Minute),
	}
}

func (d *EventDeduper) MarkProcessed(ctx context.Context, eventId string) (bool, error) {
	// Add fails when the key already exists
	if err := d.cache.Add(eventId, struct{}{}, cache.DefaultExpiration); err != nil {
		return false, nil
	}
	return true, nil
}
