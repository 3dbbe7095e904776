// FILE: internal/entity/slack_session_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DesignRequestData is the structured payload the assistant produces once
// it has heard enough about a design request. Extra keeps any fields the
// model emitted beyond the known ones.
type DesignRequestData struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    string                 `json:"category,omitempty"`
	Urgency     string                 `json:"urgency,omitempty"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

// SlackSession is one conversational session, keyed by the Slack thread
// timestamp. Messages[0] is always the system prompt.
type SlackSession struct {
	ThreadTs         string             `json:"thread_ts"`
	ChannelId        string             `json:"channel_id"`
	UserId           string             `json:"user_id"`
	TeamId           string             `json:"team_id"`
	Messages         []ChatMessage      `json:"messages"`
	StartTime        time.Time          `json:"start_time"`
	LastActivityTime time.Time          `json:"last_activity_time"`
	ResponseUrl      string             `json:"response_url,omitempty"`
	WorkspaceId      *uuid.UUID         `json:"workspace_id,omitempty"`
	JsonData         *DesignRequestData `json:"json_data,omitempty"`
}

// NewSlackSession builds a fresh session seeded with the system prompt.
// When initialMessage is non-empty it is appended as the first user turn.
func NewSlackSession(threadTs, channelId, userId, teamId, systemPrompt, initialMessage, responseUrl string, workspaceId *uuid.UUID, now time.Time) *SlackSession {
	messages := []ChatMessage{
		{Role: ChatRoleSystem, Content: systemPrompt},
	}
	if initialMessage != "" {
		messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: initialMessage})
	}

	return &SlackSession{
		ThreadTs:         threadTs,
		ChannelId:        channelId,
		UserId:           userId,
		TeamId:           teamId,
		Messages:         messages,
		StartTime:        now,
		LastActivityTime: now,
		ResponseUrl:      responseUrl,
		WorkspaceId:      workspaceId,
	}
}
