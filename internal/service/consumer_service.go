package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"bejo-chatbot-be/internal/dto"
	"bejo-chatbot-be/internal/pkg/logger"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, sysLogger logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    sysLogger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.PublishKnowledgeIndexedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer-service", "Failed to unmarshal indexed event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads are never retriable
		return
	}

	cs.logger.Info("consumer-service", "Document indexed", map[string]interface{}{
		"filename":       payload.Filename,
		"collection":     payload.CollectionName,
		"category_level": payload.CategoryLevel,
		"chunks_count":   payload.ChunksCount,
		"file_hash":      payload.FileHash,
	})
	msg.Ack()
}
