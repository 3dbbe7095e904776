package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"designhub-be/internal/dto"
	"designhub-be/internal/entity"
	"designhub-be/internal/pkg/logger"
	"designhub-be/internal/pkg/mailer"
	"designhub-be/internal/repository/specification"
	"designhub-be/internal/repository/unitofwork"
	"designhub-be/pkg/events"
	pktNats "designhub-be/pkg/nats"

	"github.com/google/uuid"
)

var ErrWorkspaceAccessDenied = errors.New("workspace access denied")

type ITaskService interface {
	CreateTask(ctx context.Context, requestedBy string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	CreateFromSlack(ctx context.Context, session *entity.SlackSession, data *entity.DesignRequestData) (*entity.DesignRequest, error)
	TaskURL(task *entity.DesignRequest) string
	GetTask(ctx context.Context, userId string, id uuid.UUID) (*dto.TaskResponse, error)
	ListTasks(ctx context.Context, userId string, workspaceId *uuid.UUID) ([]*dto.TaskResponse, error)
	GetBoard(ctx context.Context, userId string, workspaceId uuid.UUID) (*dto.BoardResponse, error)
	UpdateStatus(ctx context.Context, userId string, id uuid.UUID, status string) (*dto.TaskResponse, error)
}

type taskService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	mailer         mailer.IEmailService
	log            logger.ILogger
	notifyEmail    string
	appURL         string
}

func NewTaskService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
	notifyEmail string,
	appURL string,
) ITaskService {
	return &taskService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		mailer:         emailService,
		log:            log,
		notifyEmail:    notifyEmail,
		appURL:         appURL,
	}
}

var validStatuses = map[entity.RequestStatus]bool{
	entity.RequestStatusReceived:   true,
	entity.RequestStatusInProgress: true,
	entity.RequestStatusInReview:   true,
	entity.RequestStatusDone:       true,
}

func (s *taskService) CreateTask(ctx context.Context, requestedBy string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.WorkspaceId != nil {
		member, err := uow.WorkspaceRepository().FindMember(ctx, *req.WorkspaceId, requestedBy)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, ErrWorkspaceAccessDenied
		}
	}

	urgency := entity.RequestUrgencyNormal
	if req.Urgency == string(entity.RequestUrgencyRush) {
		urgency = entity.RequestUrgencyRush
	}
	category := req.Category
	if category == "" {
		category = entity.RequestCategoryDefault
	}

	task := &entity.DesignRequest{
		Id:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Urgency:     urgency,
		Status:      entity.RequestStatusReceived,
		RequestedBy: requestedBy,
		WorkspaceId: req.WorkspaceId,
		Extra:       req.Extra,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := uow.DesignRequestRepository().Create(ctx, task); err != nil {
		return nil, err
	}

	s.afterCreate(ctx, task)
	return s.toResponse(task), nil
}

func (s *taskService) CreateFromSlack(ctx context.Context, session *entity.SlackSession, data *entity.DesignRequestData) (*entity.DesignRequest, error) {
	if data == nil || data.Title == "" {
		return nil, errors.New("not enough data to create task")
	}

	urgency := entity.RequestUrgencyNormal
	if data.Urgency == string(entity.RequestUrgencyRush) {
		urgency = entity.RequestUrgencyRush
	}
	category := data.Category
	if category == "" {
		category = entity.RequestCategoryDefault
	}

	task := &entity.DesignRequest{
		Id:          uuid.New(),
		Title:       data.Title,
		Description: data.Description,
		Category:    category,
		Urgency:     urgency,
		Status:      entity.RequestStatusReceived,
		RequestedBy: "slack:" + session.UserId,
		WorkspaceId: session.WorkspaceId,
		Extra:       data.Extra,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DesignRequestRepository().Create(ctx, task); err != nil {
		return nil, err
	}

	s.afterCreate(ctx, task)
	return task, nil
}

// afterCreate fans out the board event and the email, both best effort.
func (s *taskService) afterCreate(ctx context.Context, task *entity.DesignRequest) {
	s.publishBoardEvent(ctx, "TASK_CREATED", task)

	if s.mailer != nil && s.notifyEmail != "" {
		taskURL := s.TaskURL(task)
		if err := s.mailer.SendTaskCreated(s.notifyEmail, task.Title, taskURL); err != nil {
			s.log.Warn("task", "failed to send task created email", map[string]interface{}{
				"task_id": task.Id,
				"error":   err.Error(),
			})
		}
	}
}

// TaskURL builds the frontend deep link to a task board entry.
func (s *taskService) TaskURL(task *entity.DesignRequest) string {
	if task.WorkspaceId != nil {
		return fmt.Sprintf("%s/workspace/%s/tasks/%s", s.appURL, task.WorkspaceId, task.Id)
	}
	return fmt.Sprintf("%s/tasks/%s", s.appURL, task.Id)
}

func (s *taskService) publishBoardEvent(ctx context.Context, eventType string, task *entity.DesignRequest) {
	if s.eventPublisher == nil {
		return
	}
	data := map[string]interface{}{
		"task_id":     task.Id,
		"title":       task.Title,
		"category":    task.Category,
		"urgency":     string(task.Urgency),
		"status":      string(task.Status),
		"occurred_at": time.Now(),
	}
	if task.WorkspaceId != nil {
		data["workspace_id"] = task.WorkspaceId.String()
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("task", "failed to publish board event", map[string]interface{}{
			"event_type": eventType,
			"task_id":    task.Id,
			"error":      err.Error(),
		})
	}
}

func (s *taskService) GetTask(ctx context.Context, userId string, id uuid.UUID) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.DesignRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	if err := s.checkAccess(ctx, uow, userId, task); err != nil {
		return nil, err
	}
	return s.toResponse(task), nil
}

// ListTasks returns the caller's own requests, or a workspace's requests
// when workspaceId is set and the caller is a member. Newest first.
func (s *taskService) ListTasks(ctx context.Context, userId string, workspaceId *uuid.UUID) ([]*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if workspaceId != nil {
		member, err := uow.WorkspaceRepository().FindMember(ctx, *workspaceId, userId)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, ErrWorkspaceAccessDenied
		}
		specs = append(specs, specification.ByWorkspaceID{WorkspaceID: *workspaceId})
	} else {
		specs = append(specs, specification.Filter("requested_by", userId))
	}

	tasks, err := uow.DesignRequestRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TaskResponse, len(tasks))
	for i, task := range tasks {
		res[i] = s.toResponse(task)
	}
	return res, nil
}

func (s *taskService) GetBoard(ctx context.Context, userId string, workspaceId uuid.UUID) (*dto.BoardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.WorkspaceRepository().FindMember(ctx, workspaceId, userId)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrWorkspaceAccessDenied
	}

	tasks, err := uow.DesignRequestRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	board := &dto.BoardResponse{
		Columns: map[string][]dto.TaskResponse{
			string(entity.RequestStatusReceived):   {},
			string(entity.RequestStatusInProgress): {},
			string(entity.RequestStatusInReview):   {},
			string(entity.RequestStatusDone):       {},
		},
	}
	for _, task := range tasks {
		col := string(task.Status)
		board.Columns[col] = append(board.Columns[col], *s.toResponse(task))
	}
	return board, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, userId string, id uuid.UUID, status string) (*dto.TaskResponse, error) {
	if !validStatuses[entity.RequestStatus(status)] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.DesignRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.New("task not found")
	}
	if err := s.checkAccess(ctx, uow, userId, task); err != nil {
		return nil, err
	}

	task.Status = entity.RequestStatus(status)
	task.UpdatedAt = time.Now()
	if err := uow.DesignRequestRepository().Update(ctx, task); err != nil {
		return nil, err
	}

	s.publishBoardEvent(ctx, "TASK_UPDATED", task)
	return s.toResponse(task), nil
}

func (s *taskService) checkAccess(ctx context.Context, uow unitofwork.UnitOfWork, userId string, task *entity.DesignRequest) error {
	// Tasks outside a workspace are visible only to their requester.
	if task.WorkspaceId == nil {
		if task.RequestedBy != userId {
			return ErrWorkspaceAccessDenied
		}
		return nil
	}
	member, err := uow.WorkspaceRepository().FindMember(ctx, *task.WorkspaceId, userId)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrWorkspaceAccessDenied
	}
	return nil
}

func (s *taskService) toResponse(task *entity.DesignRequest) *dto.TaskResponse {
	return &dto.TaskResponse{
		Id:          task.Id,
		Title:       task.Title,
		Description: task.Description,
		Category:    task.Category,
		Urgency:     string(task.Urgency),
		Status:      string(task.Status),
		RequestedBy: task.RequestedBy,
		WorkspaceId: task.WorkspaceId,
		Extra:       task.Extra,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
