package memory

import (
	"context"
	"math"
	"time"

	"designhub-be/internal/entity"
	"designhub-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps Slack sessions in process memory. Entries carry
// the session TTL natively so the cache evicts idle threads on its own;
// expiry checks still compare against LastActivityTime so the answer does
// not depend on the janitor interval.
type SessionRepository struct {
	cache *cache.Cache
	nowFn func() time.Time
}

func NewSessionRepository() *SessionRepository {
	// Purge expired items every 10 minutes
	c := cache.New(contract.SessionTimeout, 10*time.Minute)
	return &SessionRepository{
		cache: c,
		nowFn: time.Now,
	}
}

// NewSessionRepositoryWithClock is used by tests to control time.
func NewSessionRepositoryWithClock(nowFn func() time.Time) *SessionRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
		nowFn: nowFn,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *entity.SlackSession) error {
	r.cache.Set(session.ThreadTs, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, threadTs string) (*entity.SlackSession, error) {
	if x, found := r.cache.Get(threadTs); found {
		return x.(*entity.SlackSession), nil
	}
	return nil, nil
}

func (r *SessionRepository) AddMessage(ctx context.Context, threadTs string, msg entity.ChatMessage) (*entity.SlackSession, error) {
	session, _ := r.Get(ctx, threadTs)
	if session == nil {
		return nil, nil
	}

	session.Messages = append(session.Messages, msg)
	session.LastActivityTime = r.nowFn()

	// Re-set to refresh the cache TTL alongside the activity time
	r.cache.Set(threadTs, session, cache.DefaultExpiration)
	return session, nil
}

func (r *SessionRepository) UpdateJsonData(ctx context.Context, threadTs string, data *entity.DesignRequestData) (*entity.SlackSession, error) {
	session, _ := r.Get(ctx, threadTs)
	if session == nil {
		return nil, nil
	}

	session.JsonData = data
	session.LastActivityTime = r.nowFn()

	r.cache.Set(threadTs, session, cache.DefaultExpiration)
	return session, nil
}

func (r *SessionRepository) IsExpired(ctx context.Context, threadTs string) (bool, error) {
	session, _ := r.Get(ctx, threadTs)
	if session == nil {
		return true, nil
	}
	return r.nowFn().Sub(session.LastActivityTime) > contract.SessionTimeout, nil
}

func (r *SessionRepository) RemainingMinutes(ctx context.Context, threadTs string) (int, error) {
	session, _ := r.Get(ctx, threadTs)
	if session == nil {
		return 0, nil
	}

	remaining := contract.SessionTimeout - r.nowFn().Sub(session.LastActivityTime)
	if remaining <= 0 {
		return 0, nil
	}
	return int(math.Ceil(remaining.Minutes())), nil
}

func (r *SessionRepository) Delete(ctx context.Context, threadTs string) error {
	r.cache.Delete(threadTs)
	return nil
}

func (r *SessionRepository) CleanupExpired(ctx context.Context) error {
	now := r.nowFn()
	for key, item := range r.cache.Items() {
		session, ok := item.Object.(*entity.SlackSession)
		if !ok {
			continue
		}
		if now.Sub(session.LastActivityTime) > contract.SessionTimeout {
			r.cache.Delete(key)
		}
	}
	return nil
}
