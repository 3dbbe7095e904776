package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dedupKeyPrefix = "slack_event:"
	dedupWindow    = 10 * time.Minute
)

// EventDeduper marks Slack event ids in Redis with SETNX so retried
// deliveries are recognized across instances.
type EventDeduper struct {
	rdb *redis.Client
}

func NewEventDeduper(rdb *redis.Client) *EventDeduper {
	return &EventDeduper{rdb: rdb}
}

func (d *EventDeduper) MarkProcessed(ctx context.Context, eventId string) (bool, error) {
	return d.rdb.SetNX(ctx, dedupKeyPrefix+eventId, 1, dedupWindow).Result()
}
