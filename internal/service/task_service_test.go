package service

import (
	"context"
	"testing"
	"time"

	"designhub-be/internal/entity"
	"designhub-be/internal/repository/contract"
	"designhub-be/internal/repository/specification"
	"designhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDesignRequestRepo struct {
	tasks     []*entity.DesignRequest
	lastSpecs []specification.Specification
}

func (r *stubDesignRequestRepo) Create(ctx context.Context, request *entity.DesignRequest) error {
	r.tasks = append(r.tasks, request)
	return nil
}

func (r *stubDesignRequestRepo) Update(ctx context.Context, request *entity.DesignRequest) error {
	return nil
}

func (r *stubDesignRequestRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DesignRequest, error) {
	if len(r.tasks) == 0 {
		return nil, nil
	}
	return r.tasks[0], nil
}

func (r *stubDesignRequestRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DesignRequest, error) {
	r.lastSpecs = specs
	return r.tasks, nil
}

func (r *stubDesignRequestRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.tasks)), nil
}

type stubWorkspaceRepo struct {
	memberOf map[uuid.UUID]string
}

func (r *stubWorkspaceRepo) Create(ctx context.Context, workspace *entity.Workspace) error { return nil }
func (r *stubWorkspaceRepo) Update(ctx context.Context, workspace *entity.Workspace) error { return nil }

func (r *stubWorkspaceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Workspace, error) {
	return nil, nil
}

func (r *stubWorkspaceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Workspace, error) {
	return nil, nil
}

func (r *stubWorkspaceRepo) CreateURL(ctx context.Context, url *entity.WorkspaceURL) error { return nil }

func (r *stubWorkspaceRepo) CreateMember(ctx context.Context, member *entity.WorkspaceMember) error {
	return nil
}

func (r *stubWorkspaceRepo) FindMember(ctx context.Context, workspaceId uuid.UUID, userId string) (*entity.WorkspaceMember, error) {
	if r.memberOf[workspaceId] == userId {
		return &entity.WorkspaceMember{WorkspaceId: workspaceId, UserId: userId}, nil
	}
	return nil, nil
}

type stubUow struct {
	tasks      *stubDesignRequestRepo
	workspaces *stubWorkspaceRepo
}

func (u *stubUow) Begin(ctx context.Context) error { return nil }
func (u *stubUow) Commit() error                   { return nil }
func (u *stubUow) Rollback() error                 { return nil }

func (u *stubUow) WorkspaceRepository() contract.WorkspaceRepository { return u.workspaces }

func (u *stubUow) DesignRequestRepository() contract.DesignRequestRepository { return u.tasks }

func (u *stubUow) SlackIntegrationRepository() contract.SlackIntegrationRepository { return nil }

func (u *stubUow) SubscriptionRepository() contract.SubscriptionRepository { return nil }

type stubUowFactory struct {
	uow *stubUow
}

func (f *stubUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func newTaskTestService(tasks *stubDesignRequestRepo, workspaces *stubWorkspaceRepo) ITaskService {
	factory := &stubUowFactory{uow: &stubUow{tasks: tasks, workspaces: workspaces}}
	return NewTaskService(factory, nil, nil, nopLogger{}, "", "https://app.example.com")
}

func personalTask(requestedBy string) *entity.DesignRequest {
	return &entity.DesignRequest{
		Id:          uuid.New(),
		Title:       "バナー",
		Description: "詳細",
		Category:    "バナー",
		Urgency:     entity.RequestUrgencyNormal,
		Status:      entity.RequestStatusReceived,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func TestGetTask_WorkspacelessVisibleOnlyToRequester(t *testing.T) {
	ctx := context.Background()
	repo := &stubDesignRequestRepo{tasks: []*entity.DesignRequest{personalTask("user_1")}}
	svc := newTaskTestService(repo, &stubWorkspaceRepo{})

	res, err := svc.GetTask(ctx, "user_1", repo.tasks[0].Id)
	require.NoError(t, err)
	require.NotNil(t, res)

	_, err = svc.GetTask(ctx, "user_2", repo.tasks[0].Id)
	assert.ErrorIs(t, err, ErrWorkspaceAccessDenied)
}

func TestUpdateStatus_WorkspacelessDeniedForStrangers(t *testing.T) {
	ctx := context.Background()
	repo := &stubDesignRequestRepo{tasks: []*entity.DesignRequest{personalTask("slack:U123")}}
	svc := newTaskTestService(repo, &stubWorkspaceRepo{})

	_, err := svc.UpdateStatus(ctx, "user_2", repo.tasks[0].Id, string(entity.RequestStatusDone))
	assert.ErrorIs(t, err, ErrWorkspaceAccessDenied)
}

func TestListTasks_ByUserFiltersOnRequester(t *testing.T) {
	ctx := context.Background()
	repo := &stubDesignRequestRepo{tasks: []*entity.DesignRequest{personalTask("user_1")}}
	svc := newTaskTestService(repo, &stubWorkspaceRepo{})

	res, err := svc.ListTasks(ctx, "user_1", nil)
	require.NoError(t, err)
	require.Len(t, res, 1)

	var filtered bool
	var newestFirst bool
	for _, spec := range repo.lastSpecs {
		if f, ok := spec.(specification.FilterBy); ok && f.Field == "requested_by" {
			assert.Equal(t, "user_1", f.Value)
			filtered = true
		}
		if o, ok := spec.(specification.OrderBy); ok && o.Field == "created_at" {
			newestFirst = o.Desc
		}
	}
	assert.True(t, filtered)
	assert.True(t, newestFirst)
}

func TestListTasks_WorkspaceRequiresMembership(t *testing.T) {
	ctx := context.Background()
	wid := uuid.New()
	repo := &stubDesignRequestRepo{tasks: []*entity.DesignRequest{personalTask("user_1")}}
	workspaces := &stubWorkspaceRepo{memberOf: map[uuid.UUID]string{wid: "user_1"}}
	svc := newTaskTestService(repo, workspaces)

	_, err := svc.ListTasks(ctx, "user_2", &wid)
	assert.ErrorIs(t, err, ErrWorkspaceAccessDenied)

	res, err := svc.ListTasks(ctx, "user_1", &wid)
	require.NoError(t, err)
	require.Len(t, res, 1)

	var scoped bool
	for _, spec := range repo.lastSpecs {
		if w, ok := spec.(specification.ByWorkspaceID); ok {
			assert.Equal(t, wid, w.WorkspaceID)
			scoped = true
		}
	}
	assert.True(t, scoped)
}
