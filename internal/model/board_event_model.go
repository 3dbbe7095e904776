package model

import (
	"time"

	"github.com/google/uuid"
)

// BoardEvent is a realtime frame pushed to task board clients. It is not
// persisted; the board refetches state on reconnect.
type BoardEvent struct {
	ID          uuid.UUID              `json:"id"`
	WorkspaceID uuid.UUID              `json:"workspace_id"`
	Type        string                 `json:"type"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
