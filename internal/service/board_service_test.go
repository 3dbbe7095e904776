package service

import (
	"context"
	"testing"
	"time"

	"designhub-be/internal/model"
	"designhub-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBoardDelivery struct {
	sent      []model.BoardEvent
	sentTo    []uuid.UUID
	broadcast []model.BoardEvent
}

func (f *fakeBoardDelivery) Send(workspaceID uuid.UUID, event model.BoardEvent) {
	f.sent = append(f.sent, event)
	f.sentTo = append(f.sentTo, workspaceID)
}

func (f *fakeBoardDelivery) Broadcast(event model.BoardEvent) {
	f.broadcast = append(f.broadcast, event)
}

func boardEvent(typeCode string, payload map[string]interface{}) events.BaseEvent {
	return events.BaseEvent{
		Type:       "events." + typeCode,
		Data:       payload,
		OccurredAt: time.Now(),
	}
}

func TestBoardService_RoutesTaskEventToWorkspace(t *testing.T) {
	delivery := &fakeBoardDelivery{}
	svc := NewBoardService(nil, delivery, nopLogger{})
	wid := uuid.New()

	err := svc.handleEvent(context.Background(), boardEvent("TASK_CREATED", map[string]interface{}{
		"workspace_id": wid.String(),
		"title":        "バナー",
	}))
	require.NoError(t, err)

	require.Len(t, delivery.sent, 1)
	assert.Equal(t, "TASK_CREATED", delivery.sent[0].Type)
	assert.Equal(t, wid, delivery.sentTo[0])
	assert.Empty(t, delivery.broadcast)
}

func TestBoardService_RelaysSubscriptionEvents(t *testing.T) {
	delivery := &fakeBoardDelivery{}
	svc := NewBoardService(nil, delivery, nopLogger{})
	wid := uuid.New()

	err := svc.handleEvent(context.Background(), boardEvent("SUBSCRIPTION_CREATED", map[string]interface{}{
		"workspace_id": wid.String(),
		"plan_id":      uuid.New().String(),
	}))
	require.NoError(t, err)

	require.Len(t, delivery.sent, 1)
	assert.Equal(t, "SUBSCRIPTION_CREATED", delivery.sent[0].Type)
	assert.Equal(t, wid, delivery.sentTo[0])
}

func TestBoardService_DropsUnrelatedEvents(t *testing.T) {
	delivery := &fakeBoardDelivery{}
	svc := NewBoardService(nil, delivery, nopLogger{})

	err := svc.handleEvent(context.Background(), boardEvent("USER_LOGIN", map[string]interface{}{
		"workspace_id": uuid.New().String(),
	}))
	require.NoError(t, err)

	assert.Empty(t, delivery.sent)
	assert.Empty(t, delivery.broadcast)
}

func TestBoardService_BroadcastsWithoutWorkspace(t *testing.T) {
	delivery := &fakeBoardDelivery{}
	svc := NewBoardService(nil, delivery, nopLogger{})

	err := svc.handleEvent(context.Background(), boardEvent("TASK_CREATED", map[string]interface{}{
		"title": "バナー",
	}))
	require.NoError(t, err)

	assert.Empty(t, delivery.sent)
	require.Len(t, delivery.broadcast, 1)
}
