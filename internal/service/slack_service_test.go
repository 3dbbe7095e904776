package service

import (
	"context"
	"testing"

	"designhub-be/internal/constant"
	"designhub-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	jobs []*dto.SlackCommandJob
}

func (f *fakePublisher) PublishSlackCommand(ctx context.Context, job *dto.SlackCommandJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeDeduper struct {
	seen map[string]bool
}

func (f *fakeDeduper) MarkProcessed(ctx context.Context, eventId string) (bool, error) {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if f.seen[eventId] {
		return false, nil
	}
	f.seen[eventId] = true
	return true, nil
}

func newSlashTestService(publisher *fakePublisher, deduper *fakeDeduper) ISlackService {
	return NewSlackService(
		SlackConfig{AppURL: "https://app.example.com"},
		nil,
		nil,
		publisher,
		deduper,
		nopLogger{},
	)
}

func TestHandleSlashCommand(t *testing.T) {
	tests := []struct {
		name         string
		command      string
		text         string
		wantText     string
		wantPublish  bool
		wantResponse string
	}{
		{
			name:         "unknown command rejected",
			command:      "/deploy",
			text:         "something",
			wantText:     constant.SlackMsgInvalidCommand,
			wantResponse: "ephemeral",
		},
		{
			name:         "empty text gets usage hint without a session",
			command:      constant.SlackCommandDesigner,
			text:         "   ",
			wantText:     constant.SlackMsgCommandHelp,
			wantResponse: "ephemeral",
		},
		{
			name:         "valid command queued",
			command:      constant.SlackCommandDesigner,
			text:         "バナー作りたい",
			wantText:     constant.SlackMsgProcessing,
			wantPublish:  true,
			wantResponse: "ephemeral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := &fakePublisher{}
			svc := newSlashTestService(publisher, &fakeDeduper{})

			ack, err := svc.HandleSlashCommand(context.Background(), &dto.SlashCommandRequest{
				Command:     tt.command,
				Text:        tt.text,
				TeamId:      "T123",
				ChannelId:   "C123",
				UserId:      "U123",
				ResponseUrl: "https://hooks.slack.com/commands/T123",
			})
			require.NoError(t, err)
			require.NotNil(t, ack)

			assert.Equal(t, tt.wantResponse, ack.ResponseType)
			assert.Equal(t, tt.wantText, ack.Text)

			if tt.wantPublish {
				require.Len(t, publisher.jobs, 1)
				assert.Equal(t, "バナー作りたい", publisher.jobs[0].Text)
				assert.Equal(t, "T123", publisher.jobs[0].TeamId)
			} else {
				assert.Empty(t, publisher.jobs)
			}
		})
	}
}

func TestIsCreateTaskCommand(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"!create_task", true},
		{"!CREATE_TASK", true},
		{"  !Create_Task  ", true},
		{"!タスク作成", true},
		{"タスク作成", false},
		{"お願いします", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, isCreateTaskCommand(tt.text))
		})
	}
}

func TestHandleEvent_UrlVerification(t *testing.T) {
	svc := newSlashTestService(&fakePublisher{}, &fakeDeduper{})

	challenge, err := svc.HandleEvent(context.Background(), &dto.SlackEventEnvelope{
		Type:      "url_verification",
		Challenge: "challenge-token",
	})
	require.NoError(t, err)
	assert.Equal(t, "challenge-token", challenge)
}

func TestHandleEvent_DuplicateSkipped(t *testing.T) {
	deduper := &fakeDeduper{}
	svc := newSlashTestService(&fakePublisher{}, deduper)

	envelope := &dto.SlackEventEnvelope{
		Type:    "event_callback",
		TeamId:  "T123",
		EventId: "Ev123",
		Event: &dto.SlackInnerEvent{
			// Bot messages are filtered after dedup, so the duplicate path
			// is observable without touching the integration lookup.
			Type:  "message",
			BotId: "B123",
			Text:  "echo",
		},
	}

	_, err := svc.HandleEvent(context.Background(), envelope)
	require.NoError(t, err)
	assert.True(t, deduper.seen["Ev123"])

	// Redelivery of the same event id is a no-op.
	_, err = svc.HandleEvent(context.Background(), envelope)
	require.NoError(t, err)
}

func TestHandleEvent_IgnoresNonThreadMessages(t *testing.T) {
	svc := newSlashTestService(&fakePublisher{}, &fakeDeduper{})

	tests := []struct {
		name  string
		event *dto.SlackInnerEvent
	}{
		{
			name:  "bot message",
			event: &dto.SlackInnerEvent{Type: "message", BotId: "B123", ThreadTs: "100.000000"},
		},
		{
			name:  "message with subtype",
			event: &dto.SlackInnerEvent{Type: "message", Subtype: "message_changed", ThreadTs: "100.000000"},
		},
		{
			name:  "top-level channel message",
			event: &dto.SlackInnerEvent{Type: "message", Text: "hello"},
		},
		{
			name:  "non-message event",
			event: &dto.SlackInnerEvent{Type: "reaction_added"},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			challenge, err := svc.HandleEvent(context.Background(), &dto.SlackEventEnvelope{
				Type:    "event_callback",
				TeamId:  "T123",
				EventId: "Ev" + string(rune('A'+i)),
				Event:   tt.event,
			})
			require.NoError(t, err)
			assert.Empty(t, challenge)
		})
	}
}
