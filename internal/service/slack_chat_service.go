package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"designhub-be/internal/constant"
	"designhub-be/internal/dto"
	"designhub-be/internal/entity"
	"designhub-be/internal/pkg/logger"
	"designhub-be/internal/repository/contract"
	"designhub-be/pkg/llm"
	"designhub-be/pkg/slackapi"

	"github.com/google/uuid"
)

// MessageSink delivers one reply to the user. The caller decides the
// transport: response_url webhook for slash commands, chat.postMessage for
// thread events.
type MessageSink func(ctx context.Context, text string) error

type ISlackChatService interface {
	// StartSession opens a session for a thread, overwriting any previous
	// one, and returns the assistant's first reply.
	StartSession(ctx context.Context, job *dto.SlackCommandJob, threadTs string, workspaceId *uuid.UUID) (*entity.SlackSession, string, error)

	// ProcessAiMessage runs one conversation turn. The reply, expiry
	// warnings, and errors all go through sink; errors are re-raised after
	// delivery so the caller can log them.
	ProcessAiMessage(ctx context.Context, threadTs, userMessage string, sink MessageSink) error

	// CreateTaskFromJson turns the session's extracted data into a task.
	// sender posts the confirmation with a link button; when nil the plain
	// sink text is all the user gets.
	CreateTaskFromJson(ctx context.Context, threadTs string, sender slackapi.Sender, channelId string, sink MessageSink) error

	CleanupExpiredSessions(ctx context.Context) error
}

type slackChatService struct {
	sessions    contract.SlackSessionRepository
	llmProvider llm.LLMProvider
	taskService ITaskService
	log         logger.ILogger
}

func NewSlackChatService(
	sessions contract.SlackSessionRepository,
	llmProvider llm.LLMProvider,
	taskService ITaskService,
	log logger.ILogger,
) ISlackChatService {
	return &slackChatService{
		sessions:    sessions,
		llmProvider: llmProvider,
		taskService: taskService,
		log:         log,
	}
}

var (
	fencedJsonRe = regexp.MustCompile("```json\\s*([\\s\\S]*?)```")
	braceSpanRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractJsonData pulls the structured request out of a model reply. The
// prompt asks for a fenced ```json block, so that is tried first; the
// widest brace span is the fallback for models that skip the fence.
func extractJsonData(text string) *entity.DesignRequestData {
	candidate := ""
	if m := fencedJsonRe.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else if span := braceSpanRe.FindString(text); span != "" {
		candidate = span
	}
	if candidate == "" {
		return nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &raw); err != nil {
		return nil
	}

	data := &entity.DesignRequestData{}
	for key, value := range raw {
		str, _ := value.(string)
		switch key {
		case "title":
			data.Title = str
		case "description":
			data.Description = str
		case "category":
			data.Category = str
		case "urgency":
			data.Urgency = str
		default:
			if data.Extra == nil {
				data.Extra = make(map[string]interface{})
			}
			data.Extra[key] = value
		}
	}
	if data.Title == "" {
		return nil
	}
	return data
}

// normalizeRequestData fills defaults and clamps urgency to its two valid
// values. Anything that is not exactly 急ぎ becomes 通常.
func normalizeRequestData(data *entity.DesignRequestData) {
	if data.Category == "" {
		data.Category = entity.RequestCategoryDefault
	}
	if data.Urgency != string(entity.RequestUrgencyRush) {
		data.Urgency = string(entity.RequestUrgencyNormal)
	}
}

// stripJsonBlock removes the machine-readable part from the reply before it
// is shown to the user.
func stripJsonBlock(text string) string {
	cleaned := fencedJsonRe.ReplaceAllString(text, "")
	return strings.TrimSpace(cleaned)
}

func (s *slackChatService) StartSession(ctx context.Context, job *dto.SlackCommandJob, threadTs string, workspaceId *uuid.UUID) (*entity.SlackSession, string, error) {
	session := entity.NewSlackSession(
		threadTs,
		job.ChannelId,
		job.UserId,
		job.TeamId,
		constant.DesignChatSystemPrompt,
		job.Text,
		job.ResponseUrl,
		workspaceId,
		time.Now(),
	)

	reply, err := s.sendMessage(ctx, session)
	if err != nil {
		return nil, "", err
	}

	if data := extractJsonData(reply); data != nil {
		session.JsonData = data
	}
	session.Messages = append(session.Messages, entity.ChatMessage{
		Role:    entity.ChatRoleAssistant,
		Content: reply,
	})

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", err
	}

	return session, stripJsonBlock(reply), nil
}

// sendMessage relays the session transcript to the model. An empty
// completion becomes a fixed fallback so the user never sees a blank reply.
func (s *slackChatService) sendMessage(ctx context.Context, session *entity.SlackSession) (string, error) {
	history := make([]llm.Message, len(session.Messages))
	for i, msg := range session.Messages {
		history[i] = llm.Message{Role: msg.Role, Content: msg.Content}
	}

	reply, err := s.llmProvider.Chat(ctx, history, llm.WithMaxTokens(1000))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return constant.SlackMsgEmptyResponse, nil
	}
	return reply, nil
}

func (s *slackChatService) ProcessAiMessage(ctx context.Context, threadTs, userMessage string, sink MessageSink) error {
	expired, err := s.sessions.IsExpired(ctx, threadTs)
	if err != nil {
		return s.deliverError(ctx, sink, err)
	}
	if expired {
		session, getErr := s.sessions.Get(ctx, threadTs)
		if getErr != nil {
			return s.deliverError(ctx, sink, getErr)
		}
		if session == nil {
			return sink(ctx, constant.SlackMsgSessionNotFound)
		}
		if delErr := s.sessions.Delete(ctx, threadTs); delErr != nil {
			s.log.Warn("slack_chat", "failed to delete expired session", map[string]interface{}{
				"thread_ts": threadTs,
				"error":     delErr.Error(),
			})
		}
		return sink(ctx, constant.SlackMsgSessionExpired)
	}

	// Read before AddMessage refreshes the activity clock.
	remaining, remErr := s.sessions.RemainingMinutes(ctx, threadTs)
	if remErr != nil {
		remaining = 0
	}

	session, err := s.sessions.AddMessage(ctx, threadTs, entity.ChatMessage{
		Role:    entity.ChatRoleUser,
		Content: userMessage,
	})
	if err != nil {
		return s.deliverError(ctx, sink, err)
	}
	if session == nil {
		return sink(ctx, constant.SlackMsgSessionNotFound)
	}

	reply, err := s.sendMessage(ctx, session)
	if err != nil {
		return s.deliverError(ctx, sink, err)
	}

	if data := extractJsonData(reply); data != nil {
		if _, err := s.sessions.UpdateJsonData(ctx, threadTs, data); err != nil {
			return s.deliverError(ctx, sink, err)
		}
	}
	if _, err := s.sessions.AddMessage(ctx, threadTs, entity.ChatMessage{
		Role:    entity.ChatRoleAssistant,
		Content: reply,
	}); err != nil {
		return s.deliverError(ctx, sink, err)
	}

	text := stripJsonBlock(reply)
	if text == "" {
		text = constant.SlackMsgEmptyResponse
	}

	if remaining > 0 && remaining <= constant.SessionWarningMinutes {
		text += "\n\n" + fmt.Sprintf(constant.SlackMsgSessionExpiring, remaining)
	}

	return sink(ctx, text)
}

func (s *slackChatService) CreateTaskFromJson(ctx context.Context, threadTs string, sender slackapi.Sender, channelId string, sink MessageSink) error {
	expired, err := s.sessions.IsExpired(ctx, threadTs)
	if err != nil {
		return s.deliverError(ctx, sink, err)
	}
	if expired {
		session, getErr := s.sessions.Get(ctx, threadTs)
		if getErr != nil {
			return s.deliverError(ctx, sink, getErr)
		}
		if session == nil {
			return sink(ctx, constant.SlackMsgSessionNotFound)
		}
		return sink(ctx, constant.SlackMsgSessionExpired)
	}

	session, err := s.sessions.Get(ctx, threadTs)
	if err != nil {
		return s.deliverError(ctx, sink, err)
	}
	if session == nil {
		return sink(ctx, constant.SlackMsgSessionNotFound)
	}
	if session.JsonData == nil || session.JsonData.Title == "" {
		return sink(ctx, constant.SlackMsgNotEnoughData)
	}

	data := *session.JsonData
	normalizeRequestData(&data)

	task, err := s.taskService.CreateFromSlack(ctx, session, &data)
	if err != nil {
		if sinkErr := sink(ctx, fmt.Sprintf(constant.SlackMsgTaskCreateFailed, err.Error())); sinkErr != nil {
			s.log.Warn("slack_chat", "failed to deliver task failure message", map[string]interface{}{
				"thread_ts": threadTs,
				"error":     sinkErr.Error(),
			})
		}
		return err
	}

	text := fmt.Sprintf(constant.SlackMsgTaskCreated, task.Title)
	var deliverErr error
	if sender != nil {
		taskURL := s.taskService.TaskURL(task)
		deliverErr = sender.PostTaskCreatedMessage(ctx, channelId, threadTs, text, taskURL, constant.SlackMsgViewTaskButton)
	} else {
		deliverErr = sink(ctx, text)
	}
	if deliverErr != nil {
		s.log.Warn("slack_chat", "failed to deliver task created message", map[string]interface{}{
			"thread_ts": threadTs,
			"error":     deliverErr.Error(),
		})
	}

	// The request is handed off; the thread's session is done.
	if err := s.sessions.Delete(ctx, threadTs); err != nil {
		s.log.Warn("slack_chat", "failed to delete session after task creation", map[string]interface{}{
			"thread_ts": threadTs,
			"error":     err.Error(),
		})
	}
	return nil
}

func (s *slackChatService) CleanupExpiredSessions(ctx context.Context) error {
	return s.sessions.CleanupExpired(ctx)
}

// deliverError posts the error to the user first, then re-raises it.
func (s *slackChatService) deliverError(ctx context.Context, sink MessageSink, err error) error {
	if sinkErr := sink(ctx, fmt.Sprintf(constant.SlackMsgGenericError, err.Error())); sinkErr != nil {
		s.log.Warn("slack_chat", "failed to deliver error message", map[string]interface{}{
			"error":      err.Error(),
			"sink_error": sinkErr.Error(),
		})
	}
	return err
}
