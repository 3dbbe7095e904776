package unitofwork

import (
	"context"

	"designhub-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	WorkspaceRepository() contract.WorkspaceRepository
	DesignRequestRepository() contract.DesignRequestRepository
	SlackIntegrationRepository() contract.SlackIntegrationRepository
	SubscriptionRepository() contract.SubscriptionRepository
}
