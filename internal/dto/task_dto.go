package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string                 `json:"title" validate:"required,max=255"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Urgency     string                 `json:"urgency"`
	WorkspaceId *uuid.UUID             `json:"workspace_id,omitempty"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type TaskResponse struct {
	Id          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Urgency     string                 `json:"urgency"`
	Status      string                 `json:"status"`
	RequestedBy string                 `json:"requested_by"`
	WorkspaceId *uuid.UUID             `json:"workspace_id,omitempty"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// BoardResponse groups tasks by kanban column.
type BoardResponse struct {
	Columns map[string][]TaskResponse `json:"columns"`
}
