package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"designhub-be/internal/model"
	"designhub-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans board events out to connected clients. Connections are grouped
// by workspace, so every member watching a board sees the same stream.
type Hub struct {
	// Registered clients map: WorkspaceID -> List of Clients (multi-tab)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.WorkspaceID] = append(h.clients[client.WorkspaceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"workspace_id": client.WorkspaceID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.WorkspaceID]; ok {
				for i, c := range clients {
					if c == client {
						// Remove from slice
						h.clients[client.WorkspaceID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.WorkspaceID]) == 0 {
					delete(h.clients, client.WorkspaceID)
					h.logger.Info("Hub", "Workspace has no more clients", map[string]interface{}{"workspace_id": client.WorkspaceID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a board event to ALL connected clients regardless of
// workspace. Used for events that carry no workspace id.
func (h *Hub) Broadcast(event model.BoardEvent) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "board_event",
		"data": event,
	})

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
	h.mu.RUnlock()

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_workspace_id": "*", // Wildcard for broadcast
			"message":             data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// Send pushes a board event to everyone watching one workspace.
func (h *Hub) Send(workspaceID uuid.UUID, event model.BoardEvent) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "board_event",
		"data": event,
	})

	h.mu.RLock()
	clients, localFound := h.clients[workspaceID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"workspace_id": workspaceID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	// Other instances may hold connections for the same workspace.
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_workspace_id": workspaceID.String(),
			"message":             data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "cluster_events". When a message arrives,
	// deliver it to any local clients of the target workspace.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetWorkspaceID string          `json:"target_workspace_id"`
			Message           json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		// Check for Broadcast
		if payload.TargetWorkspaceID == "*" {
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					select {
					case client.Send <- payload.Message:
					default:
						close(client.Send)
						h.unregister <- client
					}
				}
			}
			h.mu.RUnlock()
			continue
		}

		wid, err := uuid.Parse(payload.TargetWorkspaceID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[wid]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					close(client.Send)
					h.unregister <- client
				}
			}
		}
	}
}
