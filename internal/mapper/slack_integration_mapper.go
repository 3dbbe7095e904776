package mapper

import (
	"designhub-be/internal/entity"
	"designhub-be/internal/model"
)

type SlackIntegrationMapper struct{}

func NewSlackIntegrationMapper() *SlackIntegrationMapper {
	return &SlackIntegrationMapper{}
}

func (m *SlackIntegrationMapper) ToEntity(i *model.SlackIntegration) *entity.SlackIntegration {
	if i == nil {
		return nil
	}
	return &entity.SlackIntegration{
		Id:          i.Id,
		WorkspaceId: i.WorkspaceId,
		SlackTeamId: i.SlackTeamId,
		BotToken:    i.BotToken,
		BotUserId:   i.BotUserId,
		TeamName:    i.TeamName,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func (m *SlackIntegrationMapper) ToModel(i *entity.SlackIntegration) *model.SlackIntegration {
	if i == nil {
		return nil
	}
	return &model.SlackIntegration{
		Id:          i.Id,
		WorkspaceId: i.WorkspaceId,
		SlackTeamId: i.SlackTeamId,
		BotToken:    i.BotToken,
		BotUserId:   i.BotUserId,
		TeamName:    i.TeamName,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
