package contract

import (
	"context"

	"designhub-be/internal/entity"
	"designhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *entity.Workspace) error
	Update(ctx context.Context, workspace *entity.Workspace) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Workspace, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Workspace, error)

	CreateURL(ctx context.Context, url *entity.WorkspaceURL) error
	CreateMember(ctx context.Context, member *entity.WorkspaceMember) error
	FindMember(ctx context.Context, workspaceId uuid.UUID, userId string) (*entity.WorkspaceMember, error)
}
