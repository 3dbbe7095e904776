package service

import (
	"context"
	"encoding/json"

	"designhub-be/internal/dto"
	"designhub-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPublisherService hands slash command jobs to the in-process worker so
// the HTTP handler can ack within Slack's 3 second window.
type IPublisherService interface {
	PublishSlackCommand(ctx context.Context, job *dto.SlackCommandJob) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	log       logger.ILogger
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
		log:       log,
	}
}

func (s *publisherService) PublishSlackCommand(ctx context.Context, job *dto.SlackCommandJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.log.Error("publisher", "failed to publish slack command job", map[string]interface{}{
			"team_id": job.TeamId,
			"error":   err.Error(),
		})
		return err
	}

	s.log.Info("publisher", "slack command job queued", map[string]interface{}{
		"team_id": job.TeamId,
		"user_id": job.UserId,
	})
	return nil
}
