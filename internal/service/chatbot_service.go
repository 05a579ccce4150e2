package service

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"bejo-chatbot-be/internal/constant"
	"bejo-chatbot-be/internal/dto"
	"bejo-chatbot-be/internal/pkg/logger"
	"bejo-chatbot-be/pkg/agent"
)

type IChatbotService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatbotService struct {
	pipeline *agent.Pipeline
	logger   logger.ILogger
}

func NewChatbotService(pipeline *agent.Pipeline, sysLogger logger.ILogger) IChatbotService {
	return &chatbotService{
		pipeline: pipeline,
		logger:   sysLogger,
	}
}

// Chat runs one conversation turn through the retrieval, generation and
// memory pipeline. The pipeline itself never fails a turn, so the only error
// surface here is the access tier guard.
func (cs *chatbotService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if request.Category < constant.MinAccessTier || request.Category > constant.MaxAccessTier {
		return nil, fiber.NewError(fiber.StatusBadRequest, "category must be between 1 and 4")
	}

	state := agent.NewConversationState(request.Input, request.UserId, request.Category)
	state = cs.pipeline.Run(ctx, state)

	cs.logger.Info("chatbot-service", "Chat turn completed", map[string]interface{}{
		"user_id":      request.UserId,
		"category":     request.Category,
		"total_tokens": state.TotalTokens,
	})

	return &dto.ChatResponse{
		Response:     state.LastMessage().Content,
		InputTokens:  state.InputTokens,
		OutputTokens: state.OutputTokens,
		TotalTokens:  state.TotalTokens,
	}, nil
}
