package mapper

import (
	"encoding/json"

	"designhub-be/internal/entity"
	"designhub-be/internal/model"

	"gorm.io/datatypes"
)

type TaskMapper struct{}

func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

func (m *TaskMapper) ToEntity(t *model.DesignRequest) *entity.DesignRequest {
	if t == nil {
		return nil
	}
	var extra map[string]interface{}
	if len(t.Extra) > 0 {
		_ = json.Unmarshal(t.Extra, &extra)
	}
	return &entity.DesignRequest{
		Id:          t.Id,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Urgency:     entity.RequestUrgency(t.Urgency),
		Status:      entity.RequestStatus(t.Status),
		RequestedBy: t.RequestedBy,
		WorkspaceId: t.WorkspaceId,
		Extra:       extra,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m *TaskMapper) ToModel(t *entity.DesignRequest) *model.DesignRequest {
	if t == nil {
		return nil
	}
	var extra datatypes.JSON
	if len(t.Extra) > 0 {
		if raw, err := json.Marshal(t.Extra); err == nil {
			extra = raw
		}
	}
	return &model.DesignRequest{
		Id:          t.Id,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Urgency:     string(t.Urgency),
		Status:      string(t.Status),
		RequestedBy: t.RequestedBy,
		WorkspaceId: t.WorkspaceId,
		Extra:       extra,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
