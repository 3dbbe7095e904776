package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"designhub-be/internal/entity"
	"designhub-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "slack_session:"

// SessionRepository stores Slack sessions in a shared Redis so any
// instance behind the load balancer can serve any thread turn. The key
// TTL mirrors the session timeout, so Redis evicts idle threads natively.
type SessionRepository struct {
	rdb   *redis.Client
	nowFn func() time.Time
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{
		rdb:   rdb,
		nowFn: time.Now,
	}
}

func sessionKey(threadTs string) string {
	return sessionKeyPrefix + threadTs
}

func (r *SessionRepository) save(ctx context.Context, session *entity.SlackSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.rdb.Set(ctx, sessionKey(session.ThreadTs), data, contract.SessionTimeout).Err()
}

func (r *SessionRepository) Create(ctx context.Context, session *entity.SlackSession) error {
	return r.save(ctx, session)
}

func (r *SessionRepository) Get(ctx context.Context, threadTs string) (*entity.SlackSession, error) {
	data, err := r.rdb.Get(ctx, sessionKey(threadTs)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session entity.SlackSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) AddMessage(ctx context.Context, threadTs string, msg entity.ChatMessage) (*entity.SlackSession, error) {
	session, err := r.Get(ctx, threadTs)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	session.Messages = append(session.Messages, msg)
	session.LastActivityTime = r.nowFn()

	if err := r.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepository) UpdateJsonData(ctx context.Context, threadTs string, data *entity.DesignRequestData) (*entity.SlackSession, error) {
	session, err := r.Get(ctx, threadTs)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	session.JsonData = data
	session.LastActivityTime = r.nowFn()

	if err := r.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepository) IsExpired(ctx context.Context, threadTs string) (bool, error) {
	session, err := r.Get(ctx, threadTs)
	if err != nil {
		return false, err
	}
	if session == nil {
		return true, nil
	}
	return r.nowFn().Sub(session.LastActivityTime) > contract.SessionTimeout, nil
}

func (r *SessionRepository) RemainingMinutes(ctx context.Context, threadTs string) (int, error) {
	session, err := r.Get(ctx, threadTs)
	if err != nil {
		return 0, err
	}
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
	return r.rdb.Del(ctx, sessionKey(threadTs)).Err()
}

// CleanupExpired is a no-op here; Redis evicts keys via their TTL.
func (r *SessionRepository) CleanupExpired(ctx context.Context) error {
	return nil
}
