package implementation

import (
	"context"
	"errors"

	"designhub-be/internal/entity"
	"designhub-be/internal/mapper"
	"designhub-be/internal/model"
	"designhub-be/internal/repository/contract"
	"designhub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkspaceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WorkspaceMapper
}

func NewWorkspaceRepository(db *gorm.DB) contract.WorkspaceRepository {
	return &WorkspaceRepositoryImpl{
		db:     db,
		mapper: mapper.NewWorkspaceMapper(),
	}
}

func (r *WorkspaceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WorkspaceRepositoryImpl) Create(ctx context.Context, workspace *entity.Workspace) error {
	m := r.mapper.ToModel(workspace)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*workspace = *r.mapper.ToEntity(m)
	return nil
}

func (r *WorkspaceRepositoryImpl) Update(ctx context.Context, workspace *entity.Workspace) error {
	m := r.mapper.ToModel(workspace)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*workspace = *r.mapper.ToEntity(m)
	return nil
}

func (r *WorkspaceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Workspace, error) {
	var m model.Workspace
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("URLs"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WorkspaceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Workspace, error) {
	var models []*model.Workspace
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("URLs"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Workspace, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *WorkspaceRepositoryImpl) CreateURL(ctx context.Context, url *entity.WorkspaceURL) error {
	m := r.mapper.URLToModel(url)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*url = *r.mapper.URLToEntity(m)
	return nil
}

func (r *WorkspaceRepositoryImpl) CreateMember(ctx context.Context, member *entity.WorkspaceMember) error {
	m := r.mapper.MemberToModel(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.MemberToEntity(m)
	return nil
}

func (r *WorkspaceRepositoryImpl) FindMember(ctx context.Context, workspaceId uuid.UUID, userId string) (*entity.WorkspaceMember, error) {
	var m model.WorkspaceMember
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceId, userId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MemberToEntity(&m), nil
}
