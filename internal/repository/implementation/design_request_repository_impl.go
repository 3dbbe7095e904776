package implementation

import (
	"context"
	"errors"

	"designhub-be/internal/entity"
	"designhub-be/internal/mapper"
	"designhub-be/internal/model"
	"designhub-be/internal/repository/contract"
	"designhub-be/internal/repository/specification"

	"gorm.io/gorm"
)

type DesignRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TaskMapper
}

func NewDesignRequestRepository(db *gorm.DB) contract.DesignRequestRepository {
	return &DesignRequestRepositoryImpl{
		db:     db,
		mapper: mapper.NewTaskMapper(),
	}
}

func (r *DesignRequestRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DesignRequestRepositoryImpl) Create(ctx context.Context, request *entity.DesignRequest) error {
	m := r.mapper.ToModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.ToEntity(m)
	return nil
}

func (r *DesignRequestRepositoryImpl) Update(ctx context.Context, request *entity.DesignRequest) error {
	m := r.mapper.ToModel(request)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.ToEntity(m)
	return nil
}

func (r *DesignRequestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DesignRequest, error) {
	var m model.DesignRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DesignRequestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DesignRequest, error) {
	var models []*model.DesignRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DesignRequest, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DesignRequestRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.DesignRequest{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
