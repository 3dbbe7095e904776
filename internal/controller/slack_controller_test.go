package controller

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"designhub-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubSlackService struct {
	eventCalls int
}

func (s *stubSlackService) HandleSlashCommand(ctx context.Context, req *dto.SlashCommandRequest) (*dto.SlashCommandAck, error) {
	return &dto.SlashCommandAck{ResponseType: "ephemeral", Text: "ok"}, nil
}

func (s *stubSlackService) RunCommandJob(ctx context.Context, job *dto.SlackCommandJob) error {
	return nil
}

func (s *stubSlackService) HandleEvent(ctx context.Context, envelope *dto.SlackEventEnvelope) (string, error) {
	s.eventCalls++
	return envelope.Challenge, nil
}

func (s *stubSlackService) HandleOAuthCallback(ctx context.Context, code, state string) (string, error) {
	return "", nil
}

func (s *stubSlackService) GetIntegration(ctx context.Context, userId string, workspaceId uuid.UUID) (*dto.SlackIntegrationResponse, error) {
	return nil, nil
}

func (s *stubSlackService) Disconnect(ctx context.Context, userId string, workspaceId uuid.UUID) error {
	return nil
}

func newSlackTestApp(svc *stubSlackService, signingSecret string) *fiber.App {
	app := fiber.New()
	NewSlackController(svc, signingSecret, nopLogger{}).RegisterRoutes(app.Group("/api"))
	return app
}

// slackSign produces the v0 HMAC signature Slack attaches to webhooks.
func slackSign(secret, body string) (signature, timestamp string) {
	timestamp = strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":" + body))
	return "v0=" + hex.EncodeToString(mac.Sum(nil)), timestamp
}

func TestEvents_UrlVerificationAnsweredWithoutSignature(t *testing.T) {
	svc := &stubSlackService{}
	app := newSlackTestApp(svc, "secret")

	body := `{"type":"url_verification","challenge":"challenge-token"}`
	req := httptest.NewRequest("POST", "/api/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(respBody), "challenge-token")

	// The handshake never reaches the event pipeline.
	assert.Zero(t, svc.eventCalls)
}

func TestEvents_UnsignedCallbackRejected(t *testing.T) {
	svc := &stubSlackService{}
	app := newSlackTestApp(svc, "secret")

	body := `{"type":"event_callback","event_id":"Ev123","event":{"type":"message","text":"hi"}}`
	req := httptest.NewRequest("POST", "/api/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, svc.eventCalls)
}

func TestEvents_SignedCallbackAccepted(t *testing.T) {
	svc := &stubSlackService{}
	app := newSlackTestApp(svc, "secret")

	body := `{"type":"event_callback","event_id":"Ev123","event":{"type":"message","text":"hi"}}`
	signature, timestamp := slackSign("secret", body)

	req := httptest.NewRequest("POST", "/api/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Slack-Signature", signature)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, svc.eventCalls)
}
