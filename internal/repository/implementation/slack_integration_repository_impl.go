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

type SlackIntegrationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SlackIntegrationMapper
}

func NewSlackIntegrationRepository(db *gorm.DB) contract.SlackIntegrationRepository {
	return &SlackIntegrationRepositoryImpl{
		db:     db,
		mapper: mapper.NewSlackIntegrationMapper(),
	}
}

func (r *SlackIntegrationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SlackIntegrationRepositoryImpl) Create(ctx context.Context, integration *entity.SlackIntegration) error {
	m := r.mapper.ToModel(integration)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*integration = *r.mapper.ToEntity(m)
	return nil
}

func (r *SlackIntegrationRepositoryImpl) Update(ctx context.Context, integration *entity.SlackIntegration) error {
	m := r.mapper.ToModel(integration)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*integration = *r.mapper.ToEntity(m)
	return nil
}

func (r *SlackIntegrationRepositoryImpl) Delete(ctx context.Context, workspaceId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceId).
		Delete(&model.SlackIntegration{}).Error
}

func (r *SlackIntegrationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SlackIntegration, error) {
	var m model.SlackIntegration
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
