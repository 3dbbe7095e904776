package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateWorkspaceRequest struct {
	Name             string   `json:"name" validate:"required,max=255"`
	Industry         string   `json:"industry"`
	BusinessOverview string   `json:"business_overview"`
	URLs             []string `json:"urls,omitempty" validate:"omitempty,dive,url"`
}

type UpdateWorkspaceRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Industry         *string `json:"industry,omitempty"`
	BusinessOverview *string `json:"business_overview,omitempty"`
}

type WorkspaceResponse struct {
	Id               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Industry         string    `json:"industry,omitempty"`
	BusinessOverview string    `json:"business_overview,omitempty"`
	CreatedBy        string    `json:"created_by"`
	URLs             []string  `json:"urls,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
