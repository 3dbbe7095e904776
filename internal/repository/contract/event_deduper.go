package contract

import "context"

// EventDeduper guards webhook handlers against Slack's retried deliveries.
type EventDeduper interface {
	// MarkProcessed records the event id and reports whether this is the
	// first time it was seen. Retries return false and must be acked
	// without side effects.
	MarkProcessed(ctx context.Context, eventId string) (bool, error)
}
