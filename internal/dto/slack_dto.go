package dto

// SlashCommandRequest mirrors the form payload Slack sends for slash
// commands.
type SlashCommandRequest struct {
	Command     string `form:"command"`
	Text        string `form:"text"`
	TeamId      string `form:"team_id"`
	ChannelId   string `form:"channel_id"`
	UserId      string `form:"user_id"`
	UserName    string `form:"user_name"`
	ResponseUrl string `form:"response_url"`
	TriggerId   string `form:"trigger_id"`
}

// SlashCommandAck is the immediate response within Slack's 3s window.
type SlashCommandAck struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

// SlackCommandJob is the async payload handed to the worker after the ack.
type SlackCommandJob struct {
	Command     string `json:"command"`
	Text        string `json:"text"`
	TeamId      string `json:"team_id"`
	ChannelId   string `json:"channel_id"`
	UserId      string `json:"user_id"`
	ResponseUrl string `json:"response_url"`
}

// --- Events API ---

// SlackEventEnvelope is the outer payload of the Events API. Type is
// "url_verification" during setup and "event_callback" afterwards.
type SlackEventEnvelope struct {
	Type      string          `json:"type"`
	Token     string          `json:"token"`
	Challenge string          `json:"challenge,omitempty"`
	TeamId    string          `json:"team_id,omitempty"`
	EventId   string          `json:"event_id,omitempty"`
	Event     *SlackInnerEvent `json:"event,omitempty"`
}

type SlackInnerEvent struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype,omitempty"`
	Channel  string `json:"channel"`
	User     string `json:"user"`
	BotId    string `json:"bot_id,omitempty"`
	Text     string `json:"text"`
	Ts       string `json:"ts"`
	ThreadTs string `json:"thread_ts,omitempty"`
}

type SlackChallengeResponse struct {
	Challenge string `json:"challenge"`
}

// --- OAuth ---

type SlackOAuthState struct {
	WorkspaceId string `json:"workspaceId"`
}

type SlackIntegrationResponse struct {
	TeamId   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Plan     string `json:"plan,omitempty"`
	IsPaid   bool   `json:"is_paid"`
}
