package contract

import (
	"context"

	"designhub-be/internal/entity"
	"designhub-be/internal/repository/specification"
)

type DesignRequestRepository interface {
	Create(ctx context.Context, request *entity.DesignRequest) error
	Update(ctx context.Context, request *entity.DesignRequest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DesignRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DesignRequest, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
