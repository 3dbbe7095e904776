package contract

import (
	"context"

	"designhub-be/internal/entity"
	"designhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SlackIntegrationRepository interface {
	Create(ctx context.Context, integration *entity.SlackIntegration) error
	Update(ctx context.Context, integration *entity.SlackIntegration) error
	Delete(ctx context.Context, workspaceId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SlackIntegration, error)
}
