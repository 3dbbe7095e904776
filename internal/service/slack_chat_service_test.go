package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"designhub-be/internal/constant"
	"designhub-be/internal/dto"
	"designhub-be/internal/entity"
	"designhub-be/internal/repository/memory"
	"designhub-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Test doubles --

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeLLM struct {
	replies []string
	err     error
	calls   int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[f.calls%len(f.replies)]
	f.calls++
	return reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, nil)
}

type fakeTaskService struct {
	created *entity.DesignRequest
	err     error
}

func (f *fakeTaskService) CreateTask(ctx context.Context, requestedBy string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeTaskService) CreateFromSlack(ctx context.Context, session *entity.SlackSession, data *entity.DesignRequestData) (*entity.DesignRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &entity.DesignRequest{
		Id:          uuid.New(),
		Title:       data.Title,
		Description: data.Description,
		Category:    data.Category,
		Urgency:     entity.RequestUrgency(data.Urgency),
		Status:      entity.RequestStatusReceived,
		RequestedBy: "slack:" + session.UserId,
		WorkspaceId: session.WorkspaceId,
		Extra:       data.Extra,
	}
	return f.created, nil
}

func (f *fakeTaskService) TaskURL(task *entity.DesignRequest) string {
	return "https://app.example.com/tasks/" + task.Id.String()
}

func (f *fakeTaskService) GetTask(ctx context.Context, userId string, id uuid.UUID) (*dto.TaskResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeTaskService) ListTasks(ctx context.Context, userId string, workspaceId *uuid.UUID) ([]*dto.TaskResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeTaskService) GetBoard(ctx context.Context, userId string, workspaceId uuid.UUID) (*dto.BoardResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeTaskService) UpdateStatus(ctx context.Context, userId string, id uuid.UUID, status string) (*dto.TaskResponse, error) {
	return nil, errors.New("not used")
}

type fakeSender struct {
	threadMessages []string
	taskMessages   []string
	taskURLs       []string
}

func (f *fakeSender) PostThreadMessage(ctx context.Context, channelId, threadTs, text string) error {
	f.threadMessages = append(f.threadMessages, text)
	return nil
}

func (f *fakeSender) PostTaskCreatedMessage(ctx context.Context, channelId, threadTs, text, taskURL, buttonLabel string) error {
	f.taskMessages = append(f.taskMessages, text)
	f.taskURLs = append(f.taskURLs, taskURL)
	return nil
}

func (f *fakeSender) PostWebhook(ctx context.Context, responseURL, text string, inChannel bool) error {
	return nil
}

type sinkRecorder struct {
	messages []string
}

func (r *sinkRecorder) sink(ctx context.Context, text string) error {
	r.messages = append(r.messages, text)
	return nil
}

func testJob() *dto.SlackCommandJob {
	return &dto.SlackCommandJob{
		Command:     constant.SlackCommandDesigner,
		Text:        "バナー作りたい",
		TeamId:      "T123",
		ChannelId:   "C123",
		UserId:      "U123",
		ResponseUrl: "https://hooks.slack.com/commands/T123",
	}
}

// -- extractJsonData / normalizeRequestData --

func TestExtractJsonData(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantNil   bool
		wantTitle string
	}{
		{
			name:      "fenced json block",
			text:      "承知しました。\n```json\n{\"title\": \"広告バナー\", \"description\": \"1080x1920\"}\n```",
			wantTitle: "広告バナー",
		},
		{
			name:      "bare json object",
			text:      "{\"title\": \"LPデザイン\", \"description\": \"新規サービス\"}",
			wantTitle: "LPデザイン",
		},
		{
			name:    "no json at all",
			text:    "もう少し詳しく教えてください。",
			wantNil: true,
		},
		{
			name:    "malformed json",
			text:    "```json\n{\"title\": \"broken\",\n```",
			wantNil: true,
		},
		{
			name:    "json without title",
			text:    "```json\n{\"description\": \"タイトル未定\"}\n```",
			wantNil: true,
		},
		{
			name:      "fenced block wins over surrounding braces",
			text:      "{not json} ```json\n{\"title\": \"正しい方\"}\n``` {also not}",
			wantTitle: "正しい方",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJsonData(tt.text)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantTitle, got.Title)
		})
	}
}

func TestExtractJsonData_ExtraFields(t *testing.T) {
	text := "```json\n{\"title\": \"バナー\", \"description\": \"詳細\", \"deadline\": \"2026-02-01\", \"budget\": 50000}\n```"
	got := extractJsonData(text)
	require.NotNil(t, got)
	assert.Equal(t, "バナー", got.Title)
	require.NotNil(t, got.Extra)
	assert.Equal(t, "2026-02-01", got.Extra["deadline"])
	assert.Equal(t, float64(50000), got.Extra["budget"])
}

func TestNormalizeRequestData(t *testing.T) {
	tests := []struct {
		name         string
		data         entity.DesignRequestData
		wantCategory string
		wantUrgency  string
	}{
		{
			name:         "empty category gets default",
			data:         entity.DesignRequestData{Title: "t"},
			wantCategory: "その他",
			wantUrgency:  "通常",
		},
		{
			name:         "rush preserved",
			data:         entity.DesignRequestData{Title: "t", Category: "バナー", Urgency: "急ぎ"},
			wantCategory: "バナー",
			wantUrgency:  "急ぎ",
		},
		{
			name:         "unknown urgency clamped to normal",
			data:         entity.DesignRequestData{Title: "t", Category: "LP", Urgency: "soon"},
			wantCategory: "LP",
			wantUrgency:  "通常",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalizeRequestData(&tt.data)
			assert.Equal(t, tt.wantCategory, tt.data.Category)
			assert.Equal(t, tt.wantUrgency, tt.data.Urgency)
		})
	}
}

func TestStripJsonBlock(t *testing.T) {
	text := "かしこまりました。\n```json\n{\"title\": \"x\"}\n```\nご確認ください。"
	got := stripJsonBlock(text)
	assert.NotContains(t, got, "```")
	assert.Contains(t, got, "かしこまりました。")
	assert.Contains(t, got, "ご確認ください。")
}

// -- StartSession --

func TestStartSession_SeedsSystemPromptAndExtractsJson(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	llmStub := &fakeLLM{replies: []string{
		"承知しました。\n```json\n{\"title\": \"広告バナー\", \"description\": \"詳細\"}\n```",
	}}
	svc := NewSlackChatService(sessions, llmStub, &fakeTaskService{}, nopLogger{})

	session, reply, err := svc.StartSession(ctx, testJob(), "100.000000", nil)
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, entity.ChatRoleSystem, session.Messages[0].Role)
	assert.Equal(t, constant.DesignChatSystemPrompt, session.Messages[0].Content)
	assert.Equal(t, entity.ChatRoleUser, session.Messages[1].Role)
	assert.Equal(t, "バナー作りたい", session.Messages[1].Content)
	assert.Equal(t, entity.ChatRoleAssistant, session.Messages[2].Role)

	require.NotNil(t, session.JsonData)
	assert.Equal(t, "広告バナー", session.JsonData.Title)

	assert.NotContains(t, reply, "```")
	assert.Contains(t, reply, "承知しました。")

	stored, err := sessions.Get(ctx, "100.000000")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestStartSession_LLMFailure(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	llmStub := &fakeLLM{err: errors.New("model unavailable")}
	svc := NewSlackChatService(sessions, llmStub, &fakeTaskService{}, nopLogger{})

	_, _, err := svc.StartSession(ctx, testJob(), "100.000000", nil)
	require.Error(t, err)

	// Nothing should be stored when the first turn fails.
	stored, getErr := sessions.Get(ctx, "100.000000")
	require.NoError(t, getErr)
	assert.Nil(t, stored)
}

// -- ProcessAiMessage --

func startedService(t *testing.T, llmStub *fakeLLM, tasks *fakeTaskService) (ISlackChatService, *memory.SessionRepository) {
	t.Helper()
	sessions := memory.NewSessionRepository()
	svc := NewSlackChatService(sessions, llmStub, tasks, nopLogger{})
	_, _, err := svc.StartSession(context.Background(), testJob(), "100.000000", nil)
	require.NoError(t, err)
	return svc, sessions
}

func TestProcessAiMessage_NormalTurn(t *testing.T) {
	ctx := context.Background()
	llmStub := &fakeLLM{replies: []string{
		"最初の返信です。",
		"サイズを教えてください。\n```json\n{\"title\": \"バナー\", \"description\": \"途中\"}\n```",
	}}
	svc, sessions := startedService(t, llmStub, &fakeTaskService{})

	rec := &sinkRecorder{}
	err := svc.ProcessAiMessage(ctx, "100.000000", "Instagram用です", rec.sink)
	require.NoError(t, err)

	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0], "サイズを教えてください。")
	assert.NotContains(t, rec.messages[0], "```")

	session, err := sessions.Get(ctx, "100.000000")
	require.NoError(t, err)
	require.NotNil(t, session)
	require.NotNil(t, session.JsonData)
	assert.Equal(t, "バナー", session.JsonData.Title)

	// system + initial user + first assistant + this user + this assistant
	assert.Len(t, session.Messages, 5)
}

func TestProcessAiMessage_MissingSession(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	svc := NewSlackChatService(sessions, &fakeLLM{replies: []string{"x"}}, &fakeTaskService{}, nopLogger{})

	rec := &sinkRecorder{}
	err := svc.ProcessAiMessage(ctx, "999.000000", "hello", rec.sink)
	require.NoError(t, err)

	require.Len(t, rec.messages, 1)
	assert.Equal(t, constant.SlackMsgSessionNotFound, rec.messages[0])
}

func TestProcessAiMessage_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	sessions := memory.NewSessionRepositoryWithClock(func() time.Time { return now })
	svc := NewSlackChatService(sessions, &fakeLLM{replies: []string{"最初の返信"}}, &fakeTaskService{}, nopLogger{})

	_, _, err := svc.StartSession(ctx, testJob(), "100.000000", nil)
	require.NoError(t, err)

	now = now.Add(16 * time.Minute)

	rec := &sinkRecorder{}
	err = svc.ProcessAiMessage(ctx, "100.000000", "まだいますか", rec.sink)
	require.NoError(t, err)

	require.Len(t, rec.messages, 1)
	assert.Equal(t, constant.SlackMsgSessionExpired, rec.messages[0])

	// The expired session is removed.
	stored, err := sessions.Get(ctx, "100.000000")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestProcessAiMessage_ErrorDeliveredThenRaised(t *testing.T) {
	ctx := context.Background()
	llmStub := &fakeLLM{replies: []string{"最初の返信"}}
	svc, _ := startedService(t, llmStub, &fakeTaskService{})

	llmStub.err = errors.New("model unavailable")

	rec := &sinkRecorder{}
	err := svc.ProcessAiMessage(ctx, "100.000000", "続きです", rec.sink)
	require.Error(t, err)

	require.Len(t, rec.messages, 1)
	assert.Equal(t, fmt.Sprintf(constant.SlackMsgGenericError, "model unavailable"), rec.messages[0])
}

func TestProcessAiMessage_ExpiryWarning(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	sessions := memory.NewSessionRepositoryWithClock(func() time.Time { return now })
	llmStub := &fakeLLM{replies: []string{"最初の返信", "続きの返信"}}
	svc := NewSlackChatService(sessions, llmStub, &fakeTaskService{}, nopLogger{})

	_, _, err := svc.StartSession(ctx, testJob(), "100.000000", nil)
	require.NoError(t, err)

	// 13.5 minutes idle leaves about 2 minutes on the clock. The warning
	// must reflect the idle time before this turn refreshes the session.
	now = now.Add(13*time.Minute + 30*time.Second)

	rec := &sinkRecorder{}
	err = svc.ProcessAiMessage(ctx, "100.000000", "続きです", rec.sink)
	require.NoError(t, err)

	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0], "続きの返信")
	assert.Contains(t, rec.messages[0], fmt.Sprintf(constant.SlackMsgSessionExpiring, 2))
}

func TestProcessAiMessage_NoWarningWhenFresh(t *testing.T) {
	ctx := context.Background()
	llmStub := &fakeLLM{replies: []string{"最初の返信", "続きの返信"}}
	svc, _ := startedService(t, llmStub, &fakeTaskService{})

	rec := &sinkRecorder{}
	err := svc.ProcessAiMessage(ctx, "100.000000", "続きです", rec.sink)
	require.NoError(t, err)
	require.Len(t, rec.messages, 1)
	assert.NotContains(t, rec.messages[0], "⚠️")
}

// -- CreateTaskFromJson --

func TestCreateTaskFromJson_HappyPath(t *testing.T) {
	ctx := context.Background()
	llmStub := &fakeLLM{replies: []string{
		"まとめました。\n```json\n{\"title\": \"広告バナー\", \"description\": \"詳細\", \"urgency\": \"急ぎ\"}\n```",
	}}
	tasks := &fakeTaskService{}
	svc, sessions := startedService(t, llmStub, tasks)

	sender := &fakeSender{}
	rec := &sinkRecorder{}
	err := svc.CreateTaskFromJson(ctx, "100.000000", sender, "C123", rec.sink)
	require.NoError(t, err)

	require.NotNil(t, tasks.created)
	assert.Equal(t, "広告バナー", tasks.created.Title)
	assert.Equal(t, entity.RequestUrgencyRush, tasks.created.Urgency)
	assert.Equal(t, "slack:U123", tasks.created.RequestedBy)

	// Confirmation goes through the sender with the link button.
	require.Len(t, sender.taskMessages, 1)
	assert.Equal(t, fmt.Sprintf(constant.SlackMsgTaskCreated, "広告バナー"), sender.taskMessages[0])
	require.Len(t, sender.taskURLs, 1)
	assert.True(t, strings.HasPrefix(sender.taskURLs[0], "https://app.example.com/tasks/"))
	assert.Empty(t, rec.messages)

	// Session is closed after handoff.
	stored, err := sessions.Get(ctx, "100.000000")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestCreateTaskFromJson_FallsBackToSinkWithoutSender(t *testing.T) {
	ctx := context.Background()
	llmStub := &fakeLLM{replies: []string{
		"まとめました。\n```json\n{\"title\": \"LP\", \"description\": \"詳細\"}\n```",
	}}
	tasks := &fakeTaskService{}
	svc, _ := startedService(t, llmStub, tasks)

	rec := &sinkRecorder{}
	err := svc.CreateTaskFromJson(ctx, "100.000000", nil, "C123", rec.sink)
	require.NoError(t, err)

	require.Len(t, rec.messages, 1)
	assert.Equal(t, fmt.Sprintf(constant.SlackMsgTaskCreated, "LP"), rec.messages[0])
}

func TestCreateTaskFromJson_NotEnoughData(t *testing.T) {
	ctx := context.Background()
	// First reply carries no JSON, so the session has no structured data.
	llmStub := &fakeLLM{replies: []string{"もう少し詳しく教えてください。"}}
	tasks := &fakeTaskService{}
	svc, sessions := startedService(t, llmStub, tasks)

	rec := &sinkRecorder{}
	err := svc.CreateTaskFromJson(ctx, "100.000000", nil, "C123", rec.sink)
	require.NoError(t, err)

	require.Len(t, rec.messages, 1)
	assert.Equal(t, constant.SlackMsgNotEnoughData, rec.messages[0])
	assert.Nil(t, tasks.created)

	// The session survives so the user can keep talking.
	stored, err := sessions.Get(ctx, "100.000000")
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestCreateTaskFromJson_TaskCreationFails(t *testing.T) {
	ctx := context.Background()
	llmStub := &fakeLLM{replies: []string{
		"まとめました。\n```json\n{\"title\": \"バナー\", \"description\": \"詳細\"}\n```",
	}}
	tasks := &fakeTaskService{err: errors.New("db down")}
	svc, sessions := startedService(t, llmStub, tasks)

	rec := &sinkRecorder{}
	err := svc.CreateTaskFromJson(ctx, "100.000000", nil, "C123", rec.sink)
	require.Error(t, err)

	require.Len(t, rec.messages, 1)
	assert.Equal(t, fmt.Sprintf(constant.SlackMsgTaskCreateFailed, "db down"), rec.messages[0])

	// Failure keeps the session so the user can retry.
	stored, getErr := sessions.Get(ctx, "100.000000")
	require.NoError(t, getErr)
	assert.NotNil(t, stored)
}

func TestCreateTaskFromJson_MissingSession(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	svc := NewSlackChatService(sessions, &fakeLLM{replies: []string{"x"}}, &fakeTaskService{}, nopLogger{})

	rec := &sinkRecorder{}
	err := svc.CreateTaskFromJson(ctx, "999.000000", nil, "C123", rec.sink)
	require.NoError(t, err)

	require.Len(t, rec.messages, 1)
	assert.Equal(t, constant.SlackMsgSessionNotFound, rec.messages[0])
}

// -- Urgency normalization through the full task path --

func TestCreateTaskFromJson_UrgencyClamped(t *testing.T) {
	ctx := context.Background()
	llmStub := &fakeLLM{replies: []string{
		"まとめました。\n```json\n{\"title\": \"バナー\", \"description\": \"詳細\", \"urgency\": \"なるはや\"}\n```",
	}}
	tasks := &fakeTaskService{}
	svc, _ := startedService(t, llmStub, tasks)

	err := svc.CreateTaskFromJson(ctx, "100.000000", nil, "C123", (&sinkRecorder{}).sink)
	require.NoError(t, err)

	require.NotNil(t, tasks.created)
	assert.Equal(t, entity.RequestUrgencyNormal, tasks.created.Urgency)
	assert.Equal(t, entity.RequestCategoryDefault, tasks.created.Category)
}
