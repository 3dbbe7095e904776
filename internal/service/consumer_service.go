// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"designhub-be/internal/dto"
	"designhub-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// commandJobTimeout bounds one slash command job, model turn included.
const commandJobTimeout = 2 * time.Minute

// IConsumerService drains the slash command queue. Each job runs the first
// model turn and posts back through the response_url.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	slackService ISlackService
	log          logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	slackService ISlackService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		slackService: slackService,
		log:          log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job dto.SlackCommandJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.log.Error("consumer", "failed to unmarshal slack command job", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.log.Info("consumer", "processing slack command job", map[string]interface{}{
		"team_id": job.TeamId,
		"user_id": job.UserId,
	})

	jobCtx, cancel := context.WithTimeout(ctx, commandJobTimeout)
	defer cancel()

	if err := cs.slackService.RunCommandJob(jobCtx, &job); err != nil {
		// The user already got the error via response_url; retrying would
		// post duplicates.
		cs.log.Error("consumer", "slack command job failed", map[string]interface{}{
			"team_id": job.TeamId,
			"error":   err.Error(),
		})
	}
	msg.Ack()
}
