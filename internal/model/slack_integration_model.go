package model

import (
	"time"

	"github.com/google/uuid"
)

type SlackIntegration struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId uuid.UUID `gorm:"type:uuid;not null;index:idx_workspace_slack_team,unique"`
	SlackTeamId string    `gorm:"type:varchar(50);not null;index:idx_workspace_slack_team,unique;index"`
	BotToken    string    `gorm:"type:text;not null"` // stored encrypted
	BotUserId   string    `gorm:"type:varchar(50);not null"`
	TeamName    string    `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (SlackIntegration) TableName() string {
	return "workspace_slack_integrations"
}
