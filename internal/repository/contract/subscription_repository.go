package contract

import (
	"context"

	"designhub-be/internal/entity"
	"designhub-be/internal/repository/specification"
)

type SubscriptionRepository interface {
	// Plans
	CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error
	FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error)
	FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error)

	// Workspace Subscriptions
	CreateSubscription(ctx context.Context, subscription *entity.WorkspaceSubscription) error
	UpdateSubscription(ctx context.Context, subscription *entity.WorkspaceSubscription) error
	FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.WorkspaceSubscription, error)
	FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.WorkspaceSubscription, error)
}
