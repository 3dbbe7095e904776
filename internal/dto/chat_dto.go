package dto

import "designhub-be/internal/entity"

// ChatTurn is one message in the web chat history sent by the client. The
// endpoint is stateless; the frontend keeps the transcript.
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	Messages    []ChatTurn `json:"messages" validate:"required,min=1,dive"`
	WorkspaceId *string    `json:"workspace_id,omitempty"`
}

type ChatResponse struct {
	Reply string                    `json:"reply"`
	Data  *entity.DesignRequestData `json:"data,omitempty"`
}
