package contract

import (
	"context"
	"time"

	"designhub-be/internal/entity"
)

// SessionTimeout is the inactivity window after which a Slack session is
// considered expired.
const SessionTimeout = 15 * time.Minute

// SlackSessionRepository stores conversational sessions keyed by thread
// timestamp. Implementations back this with process memory or a shared
// Redis so any instance can serve any thread turn.
//
// AddMessage and UpdateJsonData return (nil, nil) when the thread has no
// session; a missing session is not an error.
type SlackSessionRepository interface {
	// Create stores the session, silently overwriting any existing entry
	// for the same thread.
	Create(ctx context.Context, session *entity.SlackSession) error

	// Get returns the session without checking expiry, or nil when absent.
	Get(ctx context.Context, threadTs string) (*entity.SlackSession, error)

	// AddMessage appends a message and refreshes the activity time.
	AddMessage(ctx context.Context, threadTs string, msg entity.ChatMessage) (*entity.SlackSession, error)

	// UpdateJsonData replaces the extracted request data and refreshes the
	// activity time.
	UpdateJsonData(ctx context.Context, threadTs string, data *entity.DesignRequestData) (*entity.SlackSession, error)

	// IsExpired reports true when the session is absent or inactive for
	// longer than SessionTimeout.
	IsExpired(ctx context.Context, threadTs string) (bool, error)

	// RemainingMinutes returns the remaining lifetime rounded up to whole
	// minutes, 0 when the session is absent or expired.
	RemainingMinutes(ctx context.Context, threadTs string) (int, error)

	Delete(ctx context.Context, threadTs string) error

	// CleanupExpired sweeps expired entries once. Stores with native TTL
	// eviction may treat this as a no-op.
	CleanupExpired(ctx context.Context) error
}
