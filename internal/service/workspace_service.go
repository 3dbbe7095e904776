package service

import (
	"context"
	"errors"
	"time"

	"designhub-be/internal/dto"
	"designhub-be/internal/entity"
	"designhub-be/internal/pkg/logger"
	"designhub-be/internal/repository/specification"
	"designhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IWorkspaceService interface {
	CreateWorkspace(ctx context.Context, userId string, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error)
	UpdateWorkspace(ctx context.Context, userId string, id uuid.UUID, req *dto.UpdateWorkspaceRequest) (*dto.WorkspaceResponse, error)
	GetWorkspace(ctx context.Context, userId string, id uuid.UUID) (*dto.WorkspaceResponse, error)
	ListWorkspaces(ctx context.Context, userId string) ([]*dto.WorkspaceResponse, error)
}

type workspaceService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewWorkspaceService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IWorkspaceService {
	return &workspaceService{
		uowFactory: uowFactory,
		log:        log,
	}
}

func (s *workspaceService) CreateWorkspace(ctx context.Context, userId string, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	workspace := &entity.Workspace{
		Id:               uuid.New(),
		Name:             req.Name,
		Industry:         req.Industry,
		BusinessOverview: req.BusinessOverview,
		CreatedBy:        userId,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.WorkspaceRepository().Create(ctx, workspace); err != nil {
		return nil, err
	}

	owner := &entity.WorkspaceMember{
		Id:          uuid.New(),
		WorkspaceId: workspace.Id,
		UserId:      userId,
		Role:        entity.WorkspaceRoleOwner,
		CreatedAt:   time.Now(),
	}
	if err := uow.WorkspaceRepository().CreateMember(ctx, owner); err != nil {
		return nil, err
	}

	for _, rawURL := range req.URLs {
		wsURL := &entity.WorkspaceURL{
			Id:          uuid.New(),
			WorkspaceId: workspace.Id,
			URL:         rawURL,
			CreatedAt:   time.Now(),
		}
		if err := uow.WorkspaceRepository().CreateURL(ctx, wsURL); err != nil {
			return nil, err
		}
		workspace.URLs = append(workspace.URLs, *wsURL)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Free plan assignment is best effort; a missing seed must not block
	// workspace creation.
	s.assignFreePlan(ctx, workspace.Id)

	return s.toResponse(workspace), nil
}

func (s *workspaceService) assignFreePlan(ctx context.Context, workspaceId uuid.UUID) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.Filter("slug", "free"))
	if err != nil || plan == nil {
		s.log.Warn("workspace", "free plan not found, skipping subscription", map[string]interface{}{
			"workspace_id": workspaceId,
		})
		return
	}

	sub := &entity.WorkspaceSubscription{
		Id:                 uuid.New(),
		WorkspaceId:        workspaceId,
		PlanId:             plan.Id,
		Status:             entity.SubscriptionStatusActive,
		PaymentStatus:      entity.PaymentStatusPaid,
		CurrentPeriodStart: time.Now(),
		CurrentPeriodEnd:   time.Now().AddDate(100, 0, 0),
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		s.log.Warn("workspace", "failed to assign free plan", map[string]interface{}{
			"workspace_id": workspaceId,
			"error":        err.Error(),
		})
	}
}

func (s *workspaceService) UpdateWorkspace(ctx context.Context, userId string, id uuid.UUID, req *dto.UpdateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.WorkspaceRepository().FindMember(ctx, id, userId)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrWorkspaceAccessDenied
	}

	workspace, err := uow.WorkspaceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, errors.New("workspace not found")
	}

	if req.Name != nil {
		workspace.Name = *req.Name
	}
	if req.Industry != nil {
		workspace.Industry = *req.Industry
	}
	if req.BusinessOverview != nil {
		workspace.BusinessOverview = *req.BusinessOverview
	}
	workspace.UpdatedAt = time.Now()

	if err := uow.WorkspaceRepository().Update(ctx, workspace); err != nil {
		return nil, err
	}
	return s.toResponse(workspace), nil
}

func (s *workspaceService) GetWorkspace(ctx context.Context, userId string, id uuid.UUID) (*dto.WorkspaceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.WorkspaceRepository().FindMember(ctx, id, userId)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrWorkspaceAccessDenied
	}

	workspace, err := uow.WorkspaceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, nil
	}
	return s.toResponse(workspace), nil
}

func (s *workspaceService) ListWorkspaces(ctx context.Context, userId string) ([]*dto.WorkspaceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	workspaces, err := uow.WorkspaceRepository().FindAll(ctx,
		specification.MemberOf{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.WorkspaceResponse, len(workspaces))
	for i, w := range workspaces {
		res[i] = s.toResponse(w)
	}
	return res, nil
}

func (s *workspaceService) toResponse(w *entity.Workspace) *dto.WorkspaceResponse {
	urls := make([]string, len(w.URLs))
	for i, u := range w.URLs {
		urls[i] = u.URL
	}
	return &dto.WorkspaceResponse{
		Id:               w.Id,
		Name:             w.Name,
		Industry:         w.Industry,
		BusinessOverview: w.BusinessOverview,
		CreatedBy:        w.CreatedBy,
		URLs:             urls,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}
