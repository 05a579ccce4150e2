package service

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"bejo-chatbot-be/internal/dto"
)

type IPublisherService interface {
	PublishKnowledgeIndexed(payload dto.PublishKnowledgeIndexedMessage) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (ps *publisherService) PublishKnowledgeIndexed(payload dto.PublishKnowledgeIndexedMessage) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	return ps.pubSub.Publish(ps.topicName, msg)
}
