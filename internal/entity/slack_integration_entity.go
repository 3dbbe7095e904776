// FILE: internal/entity/slack_integration_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlackIntegration links a workspace to a Slack team after the OAuth flow.
// BotToken is stored encrypted; decryption happens in the service layer.
type SlackIntegration struct {
	Id          uuid.UUID
	WorkspaceId uuid.UUID
	SlackTeamId string
	BotToken    string
	BotUserId   string
	TeamName    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
