package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"designhub-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSlackService struct {
	jobs         []*dto.SlackCommandJob
	hadDeadlines []bool
	err          error
}

func (s *recordingSlackService) HandleSlashCommand(ctx context.Context, req *dto.SlashCommandRequest) (*dto.SlashCommandAck, error) {
	return nil, errors.New("not used")
}

func (s *recordingSlackService) RunCommandJob(ctx context.Context, job *dto.SlackCommandJob) error {
	_, hasDeadline := ctx.Deadline()
	s.jobs = append(s.jobs, job)
	s.hadDeadlines = append(s.hadDeadlines, hasDeadline)
	return s.err
}

func (s *recordingSlackService) HandleEvent(ctx context.Context, envelope *dto.SlackEventEnvelope) (string, error) {
	return "", errors.New("not used")
}

func (s *recordingSlackService) HandleOAuthCallback(ctx context.Context, code, state string) (string, error) {
	return "", errors.New("not used")
}

func (s *recordingSlackService) GetIntegration(ctx context.Context, userId string, workspaceId uuid.UUID) (*dto.SlackIntegrationResponse, error) {
	return nil, errors.New("not used")
}

func (s *recordingSlackService) Disconnect(ctx context.Context, userId string, workspaceId uuid.UUID) error {
	return errors.New("not used")
}

func commandJobMessage(t *testing.T) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.SlackCommandJob{
		Command: "/designer",
		Text:    "バナー作りたい",
		TeamId:  "T123",
		UserId:  "U123",
	})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func requireAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	default:
		t.Fatal("message was not acked")
	}
}

func TestProcessMessage_JobRunsWithDeadline(t *testing.T) {
	svc := &recordingSlackService{}
	cs := &consumerService{slackService: svc, topicName: "JOBS", log: nopLogger{}}

	msg := commandJobMessage(t)
	cs.processMessage(context.Background(), msg)

	require.Len(t, svc.jobs, 1)
	assert.Equal(t, "T123", svc.jobs[0].TeamId)
	assert.True(t, svc.hadDeadlines[0])
	requireAcked(t, msg)
}

func TestProcessMessage_FailedJobStillAcked(t *testing.T) {
	svc := &recordingSlackService{err: errors.New("slack down")}
	cs := &consumerService{slackService: svc, topicName: "JOBS", log: nopLogger{}}

	msg := commandJobMessage(t)
	cs.processMessage(context.Background(), msg)

	require.Len(t, svc.jobs, 1)
	requireAcked(t, msg)
}

func TestProcessMessage_InvalidPayloadAcked(t *testing.T) {
	svc := &recordingSlackService{}
	cs := &consumerService{slackService: svc, topicName: "JOBS", log: nopLogger{}}

	msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	cs.processMessage(context.Background(), msg)

	assert.Empty(t, svc.jobs)
	requireAcked(t, msg)
}
