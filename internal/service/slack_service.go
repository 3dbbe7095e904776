package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"designhub-be/internal/constant"
	"designhub-be/internal/dto"
	"designhub-be/internal/entity"
	"designhub-be/internal/pkg/logger"
	"designhub-be/internal/repository/contract"
	"designhub-be/internal/repository/specification"
	"designhub-be/internal/repository/unitofwork"
	"designhub-be/pkg/slackapi"

	"github.com/google/uuid"
)

type SlackConfig struct {
	SigningSecret string
	ClientID      string
	ClientSecret  string
	RedirectURI   string
	AppURL        string
}

type ISlackService interface {
	// HandleSlashCommand validates the command and returns the immediate
	// ack. Real work happens async via the publisher.
	HandleSlashCommand(ctx context.Context, req *dto.SlashCommandRequest) (*dto.SlashCommandAck, error)

	// RunCommandJob is the async half of a slash command: open the
	// session, run the first model turn, deliver via response_url.
	RunCommandJob(ctx context.Context, job *dto.SlackCommandJob) error

	// HandleEvent processes an Events API envelope. For url_verification
	// the challenge comes back; event callbacks are handled async.
	HandleEvent(ctx context.Context, envelope *dto.SlackEventEnvelope) (string, error)

	// HandleOAuthCallback finishes the install flow and returns the
	// frontend URL to redirect the browser to.
	HandleOAuthCallback(ctx context.Context, code, state string) (string, error)

	GetIntegration(ctx context.Context, userId string, workspaceId uuid.UUID) (*dto.SlackIntegrationResponse, error)
	Disconnect(ctx context.Context, userId string, workspaceId uuid.UUID) error
}

type slackService struct {
	cfg         SlackConfig
	uowFactory  unitofwork.RepositoryFactory
	chatService ISlackChatService
	publisher   IPublisherService
	deduper     contract.EventDeduper
	log         logger.ILogger

	// newSender is swappable in tests.
	newSender func(botToken string) slackapi.Sender
}

func NewSlackService(
	cfg SlackConfig,
	uowFactory unitofwork.RepositoryFactory,
	chatService ISlackChatService,
	publisher IPublisherService,
	deduper contract.EventDeduper,
	log logger.ILogger,
) ISlackService {
	return &slackService{
		cfg:         cfg,
		uowFactory:  uowFactory,
		chatService: chatService,
		publisher:   publisher,
		deduper:     deduper,
		log:         log,
		newSender: func(botToken string) slackapi.Sender {
			return slackapi.NewClient(botToken)
		},
	}
}

func (s *slackService) HandleSlashCommand(ctx context.Context, req *dto.SlashCommandRequest) (*dto.SlashCommandAck, error) {
	if req.Command != constant.SlackCommandDesigner {
		return &dto.SlashCommandAck{
			ResponseType: "ephemeral",
			Text:         constant.SlackMsgInvalidCommand,
		}, nil
	}

	if strings.TrimSpace(req.Text) == "" {
		// Usage hint only; no session is opened for an empty command.
		return &dto.SlashCommandAck{
			ResponseType: "ephemeral",
			Text:         constant.SlackMsgCommandHelp,
		}, nil
	}

	job := &dto.SlackCommandJob{
		Command:     req.Command,
		Text:        strings.TrimSpace(req.Text),
		TeamId:      req.TeamId,
		ChannelId:   req.ChannelId,
		UserId:      req.UserId,
		ResponseUrl: req.ResponseUrl,
	}
	if err := s.publisher.PublishSlackCommand(ctx, job); err != nil {
		return nil, err
	}

	return &dto.SlashCommandAck{
		ResponseType: "ephemeral",
		Text:         constant.SlackMsgProcessing,
	}, nil
}

func (s *slackService) RunCommandJob(ctx context.Context, job *dto.SlackCommandJob) error {
	webhookSink := func(ctx context.Context, text string) error {
		return slackapi.PostWebhook(ctx, job.ResponseUrl, text, false)
	}

	workspaceId, _, err := s.lookupIntegration(ctx, job.TeamId)
	if err != nil {
		s.log.Warn("slack", "no integration for team, continuing without workspace", map[string]interface{}{
			"team_id": job.TeamId,
			"error":   err.Error(),
		})
	}

	threadTs := fmt.Sprintf("%d.000000", time.Now().Unix())

	_, reply, err := s.chatService.StartSession(ctx, job, threadTs, workspaceId)
	if err != nil {
		if sinkErr := webhookSink(ctx, fmt.Sprintf(constant.SlackMsgGenericError, err.Error())); sinkErr != nil {
			s.log.Warn("slack", "failed to deliver command error", map[string]interface{}{
				"team_id": job.TeamId,
				"error":   sinkErr.Error(),
			})
		}
		return err
	}

	if err := slackapi.PostWebhook(ctx, job.ResponseUrl, constant.SlackMsgIntro, true); err != nil {
		s.log.Warn("slack", "failed to post intro message", map[string]interface{}{
			"team_id": job.TeamId,
			"error":   err.Error(),
		})
	}
	if err := slackapi.PostWebhook(ctx, job.ResponseUrl, reply, true); err != nil {
		s.log.Warn("slack", "failed to post first reply", map[string]interface{}{
			"team_id": job.TeamId,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

func (s *slackService) HandleEvent(ctx context.Context, envelope *dto.SlackEventEnvelope) (string, error) {
	if envelope.Type == "url_verification" {
		return envelope.Challenge, nil
	}
	if envelope.Type != "event_callback" || envelope.Event == nil {
		return "", nil
	}

	if envelope.EventId != "" {
		fresh, err := s.deduper.MarkProcessed(ctx, envelope.EventId)
		if err != nil {
			s.log.Warn("slack", "event dedup check failed", map[string]interface{}{
				"event_id": envelope.EventId,
				"error":    err.Error(),
			})
		} else if !fresh {
			return "", nil
		}
	}

	event := envelope.Event
	if event.Type != "message" || event.BotId != "" || event.Subtype != "" {
		return "", nil
	}
	if event.ThreadTs == "" {
		// Only thread replies participate in sessions.
		return "", nil
	}

	// Ack immediately; the turn runs in the background with its own
	// deadline.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.processThreadMessage(bgCtx, envelope.TeamId, event); err != nil {
			s.log.Error("slack", "thread message processing failed", map[string]interface{}{
				"team_id":   envelope.TeamId,
				"thread_ts": event.ThreadTs,
				"error":     err.Error(),
			})
		}
	}()

	return "", nil
}

func (s *slackService) processThreadMessage(ctx context.Context, teamId string, event *dto.SlackInnerEvent) error {
	_, botToken, err := s.lookupIntegration(ctx, teamId)
	if err != nil {
		return err
	}
	sender := s.newSender(botToken)

	threadSink := func(ctx context.Context, text string) error {
		return sender.PostThreadMessage(ctx, event.Channel, event.ThreadTs, text)
	}

	text := strings.TrimSpace(event.Text)
	if isCreateTaskCommand(text) {
		return s.chatService.CreateTaskFromJson(ctx, event.ThreadTs, sender, event.Channel, threadSink)
	}

	return s.chatService.ProcessAiMessage(ctx, event.ThreadTs, text, threadSink)
}

// isCreateTaskCommand matches the thread commands regardless of letter case.
func isCreateTaskCommand(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	return lowered == constant.SlackCommandCreateTask || lowered == constant.SlackCommandCreateTaskJa
}

func (s *slackService) HandleOAuthCallback(ctx context.Context, code, state string) (string, error) {
	var oauthState dto.SlackOAuthState
	stateRaw, err := base64.StdEncoding.DecodeString(state)
	if err != nil {
		return "", fmt.Errorf("decode oauth state: %w", err)
	}
	if err := json.Unmarshal(stateRaw, &oauthState); err != nil {
		return "", fmt.Errorf("parse oauth state: %w", err)
	}
	workspaceId, err := uuid.Parse(oauthState.WorkspaceId)
	if err != nil {
		return "", fmt.Errorf("invalid workspace id in state: %w", err)
	}

	resp, err := slackapi.ExchangeOAuthCode(ctx, s.cfg.ClientID, s.cfg.ClientSecret, code, s.cfg.RedirectURI)
	if err != nil {
		return "", fmt.Errorf("oauth exchange failed: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	workspace, err := uow.WorkspaceRepository().FindOne(ctx, specification.ByID{ID: workspaceId})
	if err != nil {
		return "", err
	}
	if workspace == nil {
		return "", errors.New("workspace not found")
	}

	existing, err := uow.SlackIntegrationRepository().FindOne(ctx,
		specification.Filter("workspace_id", workspaceId))
	if err != nil {
		return "", err
	}

	integration := &entity.SlackIntegration{
		WorkspaceId: workspaceId,
		SlackTeamId: resp.Team.ID,
		BotToken:    slackapi.EncodeToken(resp.AccessToken),
		BotUserId:   resp.BotUserID,
		TeamName:    resp.Team.Name,
	}
	if existing != nil {
		integration.Id = existing.Id
		integration.CreatedAt = existing.CreatedAt
		integration.UpdatedAt = time.Now()
		if err := uow.SlackIntegrationRepository().Update(ctx, integration); err != nil {
			return "", err
		}
	} else {
		integration.Id = uuid.New()
		integration.CreatedAt = time.Now()
		integration.UpdatedAt = time.Now()
		if err := uow.SlackIntegrationRepository().Create(ctx, integration); err != nil {
			return "", err
		}
	}

	s.log.Info("slack", "integration installed", map[string]interface{}{
		"workspace_id": workspaceId,
		"team_id":      resp.Team.ID,
		"team_name":    resp.Team.Name,
	})

	return fmt.Sprintf("%s/workspace/%s/settings?slack=connected", s.cfg.AppURL, workspaceId), nil
}

func (s *slackService) GetIntegration(ctx context.Context, userId string, workspaceId uuid.UUID) (*dto.SlackIntegrationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.WorkspaceRepository().FindMember(ctx, workspaceId, userId)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrWorkspaceAccessDenied
	}

	integration, err := uow.SlackIntegrationRepository().FindOne(ctx,
		specification.Filter("workspace_id", workspaceId))
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, nil
	}

	res := &dto.SlackIntegrationResponse{
		TeamId:   integration.SlackTeamId,
		TeamName: integration.TeamName,
	}

	// Plan info is fetched live; team.info is cheap and plans change
	// outside our control.
	if botToken, err := slackapi.DecodeToken(integration.BotToken); err == nil {
		if plan, isPaid, planErr := slackapi.TeamPlan(ctx, botToken); planErr == nil {
			res.Plan = plan
			res.IsPaid = isPaid
		} else {
			s.log.Warn("slack", "failed to fetch team plan", map[string]interface{}{
				"team_id": integration.SlackTeamId,
				"error":   planErr.Error(),
			})
		}
	}

	return res, nil
}

func (s *slackService) Disconnect(ctx context.Context, userId string, workspaceId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.WorkspaceRepository().FindMember(ctx, workspaceId, userId)
	if err != nil {
		return err
	}
	if member == nil || member.Role != entity.WorkspaceRoleOwner {
		return ErrWorkspaceAccessDenied
	}

	return uow.SlackIntegrationRepository().Delete(ctx, workspaceId)
}

// lookupIntegration resolves the workspace and decrypted bot token behind a
// Slack team id.
func (s *slackService) lookupIntegration(ctx context.Context, teamId string) (*uuid.UUID, string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	integration, err := uow.SlackIntegrationRepository().FindOne(ctx,
		specification.BySlackTeamID{TeamID: teamId})
	if err != nil {
		return nil, "", err
	}
	if integration == nil {
		return nil, "", fmt.Errorf("no slack integration for team %s", teamId)
	}
	botToken, err := slackapi.DecodeToken(integration.BotToken)
	if err != nil {
		return nil, "", err
	}
	workspaceId := integration.WorkspaceId
	return &workspaceId, botToken, nil
}
