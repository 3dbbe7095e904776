package memory

import (
	"context"
	"testing"
	"time"

	"designhub-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(threadTs string, now time.Time) *entity.SlackSession {
	return entity.NewSlackSession(
		threadTs,
		"C123",
		"U123",
		"T123",
		"system prompt",
		"バナー作りたい",
		"",
		nil,
		now,
	)
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepositoryWithClock(func() time.Time { return now })

	session := newTestSession("100.000000", now)
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.Get(ctx, "100.000000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "C123", got.ChannelId)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, entity.ChatRoleSystem, got.Messages[0].Role)
	assert.Equal(t, entity.ChatRoleUser, got.Messages[1].Role)
}

func TestSessionRepository_GetMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepositoryWithClock(time.Now)

	got, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_CreateOverwrites(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepositoryWithClock(func() time.Time { return now })

	first := newTestSession("100.000000", now)
	first.UserId = "U_OLD"
	require.NoError(t, repo.Create(ctx, first))

	second := newTestSession("100.000000", now)
	second.UserId = "U_NEW"
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.Get(ctx, "100.000000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "U_NEW", got.UserId)
}

func TestSessionRepository_AddMessageRefreshesActivity(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepositoryWithClock(func() time.Time { return now })

	require.NoError(t, repo.Create(ctx, newTestSession("100.000000", now)))

	// 10 minutes pass, then the user replies.
	now = now.Add(10 * time.Minute)
	session, err := repo.AddMessage(ctx, "100.000000", entity.ChatMessage{
		Role:    entity.ChatRoleUser,
		Content: "サイズは1080x1920です",
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Len(t, session.Messages, 3)

	// Another 10 minutes is within the refreshed window.
	now = now.Add(10 * time.Minute)
	expired, err := repo.IsExpired(ctx, "100.000000")
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestSessionRepository_AddMessageMissingSession(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepositoryWithClock(time.Now)

	session, err := repo.AddMessage(ctx, "nope", entity.ChatMessage{
		Role:    entity.ChatRoleUser,
		Content: "hello",
	})
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionRepository_UpdateJsonData(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepositoryWithClock(func() time.Time { return now })

	require.NoError(t, repo.Create(ctx, newTestSession("100.000000", now)))

	data := &entity.DesignRequestData{
		Title:       "Instagram広告バナー",
		Description: "1080x1920、若年層向け",
		Category:    "バナー",
		Urgency:     "急ぎ",
	}
	session, err := repo.UpdateJsonData(ctx, "100.000000", data)
	require.NoError(t, err)
	require.NotNil(t, session)
	require.NotNil(t, session.JsonData)
	assert.Equal(t, "Instagram広告バナー", session.JsonData.Title)

	missing, err := repo.UpdateJsonData(ctx, "nope", data)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepositoryWithClock(func() time.Time { return now })

	require.NoError(t, repo.Create(ctx, newTestSession("100.000000", now)))

	// 14 minutes in: still alive.
	now = now.Add(14 * time.Minute)
	expired, err := repo.IsExpired(ctx, "100.000000")
	require.NoError(t, err)
	assert.False(t, expired)

	// 16 minutes in: past the 15 minute window.
	now = now.Add(2 * time.Minute)
	expired, err = repo.IsExpired(ctx, "100.000000")
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestSessionRepository_ExpiryMissingSession(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepositoryWithClock(time.Now)

	expired, err := repo.IsExpired(ctx, "nope")
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestSessionRepository_RemainingMinutes(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	now := base
	repo := NewSessionRepositoryWithClock(func() time.Time { return now })

	require.NoError(t, repo.Create(ctx, newTestSession("100.000000", base)))

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{name: "fresh session", elapsed: 0, want: 15},
		{name: "partial minute rounds up", elapsed: 13*time.Minute + 30*time.Second, want: 2},
		{name: "last minute", elapsed: 14*time.Minute + 1*time.Second, want: 1},
		{name: "expired", elapsed: 16 * time.Minute, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = base.Add(tt.elapsed)
			got, err := repo.RemainingMinutes(ctx, "100.000000")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionRepository_RemainingMinutesMissingSession(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepositoryWithClock(time.Now)

	got, err := repo.RemainingMinutes(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestSessionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepositoryWithClock(func() time.Time { return now })

	require.NoError(t, repo.Create(ctx, newTestSession("100.000000", now)))
	require.NoError(t, repo.Delete(ctx, "100.000000"))

	got, err := repo.Get(ctx, "100.000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepositoryWithClock(func() time.Time { return now })

	require.NoError(t, repo.Create(ctx, newTestSession("100.000000", now)))
	require.NoError(t, repo.Create(ctx, newTestSession("200.000000", now.Add(10*time.Minute))))

	// 100 is 16 minutes idle, 200 only 6.
	now = now.Add(16 * time.Minute)
	require.NoError(t, repo.CleanupExpired(ctx))

	gone, err := repo.Get(ctx, "100.000000")
	require.NoError(t, err)
	assert.Nil(t, gone)

	alive, err := repo.Get(ctx, "200.000000")
	require.NoError(t, err)
	assert.NotNil(t, alive)
}
