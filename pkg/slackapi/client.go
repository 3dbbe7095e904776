package slackapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

// Sender is the outbound surface the chat services depend on. The real
// client talks to the Slack Web API; tests swap in a recorder.
type Sender interface {
	PostThreadMessage(ctx context.Context, channelId, threadTs, text string) error
	PostTaskCreatedMessage(ctx context.Context, channelId, threadTs, text, taskURL, buttonLabel string) error
	PostWebhook(ctx context.Context, responseURL, text string, inChannel bool) error
}

type Client struct {
	api *slack.Client
}

var _ Sender = &Client{}

func NewClient(botToken string) *Client {
	return &Client{
		api: slack.New(botToken),
	}
}

func (c *Client) PostThreadMessage(ctx context.Context, channelId, threadTs, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, channelId,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTs),
	)
	return err
}

// PostTaskCreatedMessage posts the confirmation with a link button to the
// task board entry.
func (c *Client) PostTaskCreatedMessage(ctx context.Context, channelId, threadTs, text, taskURL, buttonLabel string) error {
	section := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
		nil, nil,
	)
	button := slack.NewButtonBlockElement("view_task", taskURL,
		slack.NewTextBlockObject(slack.PlainTextType, buttonLabel, false, false))
	button.URL = taskURL
	actions := slack.NewActionBlock("", button)

	_, _, err := c.api.PostMessageContext(ctx, channelId,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(section, actions),
		slack.MsgOptionTS(threadTs),
	)
	return err
}

func (c *Client) PostWebhook(ctx context.Context, responseURL, text string, inChannel bool) error {
	return PostWebhook(ctx, responseURL, text, inChannel)
}

// PostWebhook posts to a response_url. No bot token is needed, so this is
// usable before an integration exists.
func PostWebhook(ctx context.Context, responseURL, text string, inChannel bool) error {
	responseType := "ephemeral"
	if inChannel {
		responseType = "in_channel"
	}
	return slack.PostWebhookContext(ctx, responseURL, &slack.WebhookMessage{
		Text:         text,
		ResponseType: responseType,
	})
}

// AuthTest resolves the bot user behind a token.
func (c *Client) AuthTest(ctx context.Context) (*slack.AuthTestResponse, error) {
	return c.api.AuthTestContext(ctx)
}

// VerifyRequest checks the v0 HMAC signature Slack attaches to every
// webhook. Headers come in as a plain map since fiber does not expose an
// http.Request.
func VerifyRequest(signingSecret string, headers map[string]string, body []byte) error {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	sv, err := slack.NewSecretsVerifier(h, signingSecret)
	if err != nil {
		return fmt.Errorf("init secrets verifier: %w", err)
	}
	if _, err := sv.Write(body); err != nil {
		return fmt.Errorf("write body to verifier: %w", err)
	}
	if err := sv.Ensure(); err != nil {
		return fmt.Errorf("signature mismatch: %w", err)
	}
	return nil
}

// ExchangeOAuthCode trades a temporary OAuth code for a bot token.
func ExchangeOAuthCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*slack.OAuthV2Response, error) {
	return slack.GetOAuthV2ResponseContext(ctx, http.DefaultClient, clientID, clientSecret, code, redirectURI)
}

type teamInfoResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error"`
	Team  struct {
		Id     string `json:"id"`
		Name   string `json:"name"`
		IsPaid bool   `json:"is_paid"`
		Plan   string `json:"plan"`
	} `json:"team"`
}

// TeamPlan fetches the workspace plan via team.info. The response carries
// plan fields the typed client does not surface, so this goes straight to
// the HTTP API.
func TeamPlan(ctx context.Context, botToken string) (plan string, isPaid bool, err error) {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://slack.com/api/team.info", nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+botToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("team.info request failed: %w", err)
	}
	defer resp.Body.Close()

	var info teamInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", false, fmt.Errorf("decode team.info response: %w", err)
	}
	if !info.Ok {
		return "", false, fmt.Errorf("team.info error: %s", info.Error)
	}
	return info.Team.Plan, info.Team.IsPaid, nil
}
