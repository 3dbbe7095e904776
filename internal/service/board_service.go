package service

import (
	"context"
	"strings"
	"time"

	"designhub-be/internal/model"
	"designhub-be/internal/pkg/logger"
	"designhub-be/pkg/events"
	pktNats "designhub-be/pkg/nats"

	"github.com/google/uuid"
)

// BoardDelivery defines how to push real-time board updates.
// Typically implemented by the WebSocket Hub.
type BoardDelivery interface {
	Send(workspaceID uuid.UUID, event model.BoardEvent)
	Broadcast(event model.BoardEvent)
}

// BoardService bridges the NATS event bus to live board clients. TASK_* and
// SUBSCRIPTION_* events are relayed to the right workspace room.
type BoardService struct {
	subscriber *pktNats.Subscriber
	delivery   BoardDelivery
	logger     logger.ILogger
}

func NewBoardService(sub *pktNats.Subscriber, delivery BoardDelivery, log logger.ILogger) *BoardService {
	return &BoardService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *BoardService) Start() {
	err := s.subscriber.Subscribe("events.>", "board-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("BoardService", "Failed to start board subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("BoardService", "Board service started, listening to events.>", nil)
}

func (s *BoardService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects arrive as "events.TASK_CREATED".
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	if !strings.HasPrefix(typeCode, "TASK_") && !strings.HasPrefix(typeCode, "SUBSCRIPTION_") {
		return nil
	}

	payload := event.Payload()
	boardEvent := model.BoardEvent{
		ID:        uuid.New(),
		Type:      typeCode,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	if s.delivery == nil {
		return nil
	}

	widStr, _ := payload["workspace_id"].(string)
	if widStr == "" {
		s.delivery.Broadcast(boardEvent)
		return nil
	}

	wid, err := uuid.Parse(widStr)
	if err != nil {
		s.logger.Warn("BoardService", "Invalid workspace_id in event payload", map[string]interface{}{
			"type":         typeCode,
			"workspace_id": widStr,
		})
		return nil
	}
	boardEvent.WorkspaceID = wid
	s.delivery.Send(wid, boardEvent)
	return nil
}
