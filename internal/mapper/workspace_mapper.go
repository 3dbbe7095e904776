package mapper

import (
	"designhub-be/internal/entity"
	"designhub-be/internal/model"
)

type WorkspaceMapper struct{}

func NewWorkspaceMapper() *WorkspaceMapper {
	return &WorkspaceMapper{}
}

func (m *WorkspaceMapper) ToEntity(w *model.Workspace) *entity.Workspace {
	if w == nil {
		return nil
	}
	return &entity.Workspace{
		Id:               w.Id,
		Name:             w.Name,
		Industry:         w.Industry,
		BusinessOverview: w.BusinessOverview,
		CreatedBy:        w.CreatedBy,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
		URLs:             m.mapURLsToEntities(w.URLs),
	}
}

func (m *WorkspaceMapper) ToModel(w *entity.Workspace) *model.Workspace {
	if w == nil {
		return nil
	}
	return &model.Workspace{
		Id:               w.Id,
		Name:             w.Name,
		Industry:         w.Industry,
		BusinessOverview: w.BusinessOverview,
		CreatedBy:        w.CreatedBy,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

func (m *WorkspaceMapper) URLToEntity(u *model.WorkspaceURL) *entity.WorkspaceURL {
	if u == nil {
		return nil
	}
	return &entity.WorkspaceURL{
		Id:          u.Id,
		WorkspaceId: u.WorkspaceId,
		URL:         u.URL,
		CreatedAt:   u.CreatedAt,
	}
}

func (m *WorkspaceMapper) URLToModel(u *entity.WorkspaceURL) *model.WorkspaceURL {
	if u == nil {
		return nil
	}
	return &model.WorkspaceURL{
		Id:          u.Id,
		WorkspaceId: u.WorkspaceId,
		URL:         u.URL,
		CreatedAt:   u.CreatedAt,
	}
}

func (m *WorkspaceMapper) MemberToEntity(mm *model.WorkspaceMember) *entity.WorkspaceMember {
	if mm == nil {
		return nil
	}
	return &entity.WorkspaceMember{
		Id:          mm.Id,
		WorkspaceId: mm.WorkspaceId,
		UserId:      mm.UserId,
		Role:        entity.WorkspaceRole(mm.Role),
		CreatedAt:   mm.CreatedAt,
	}
}

func (m *WorkspaceMapper) MemberToModel(mm *entity.WorkspaceMember) *model.WorkspaceMember {
	if mm == nil {
		return nil
	}
	return &model.WorkspaceMember{
		Id:          mm.Id,
		WorkspaceId: mm.WorkspaceId,
		UserId:      mm.UserId,
		Role:        string(mm.Role),
		CreatedAt:   mm.CreatedAt,
	}
}

func (m *WorkspaceMapper) mapURLsToEntities(models []*model.WorkspaceURL) []entity.WorkspaceURL {
	if models == nil {
		return nil
	}
	entities := make([]entity.WorkspaceURL, len(models))
	for i, mdl := range models {
		if val := m.URLToEntity(mdl); val != nil {
			entities[i] = *val
		}
	}
	return entities
}
