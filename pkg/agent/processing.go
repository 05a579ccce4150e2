package agent

import (
	"context"
	"fmt"

	"bejo-chatbot-be/internal/constant"
	"bejo-chatbot-be/internal/pkg/logger"
	"bejo-chatbot-be/pkg/llm"
)

// MemoryGateway is the per-user long-term memory collaborator.
type MemoryGateway interface {
	Search(ctx context.Context, query, userId string) string
	Append(ctx context.Context, turns []llm.Message, userId string) bool
}

// processingNode is the generation engine: it grounds a prompt in the user's
// memory and the retrieved knowledge, invokes the model, and accounts tokens.
type processingNode struct {
	memory      MemoryGateway
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func (n *processingNode) run(ctx context.Context, state *ConversationState) {
	state.UserMemory = n.memory.Search(ctx, state.LastMessage().Content, state.UserId)

	systemPrompt := fmt.Sprintf(constant.ChatSystemPromptV1, state.UserMemory, state.RetrievedKnowledge)

	history := make([]llm.Message, 0, len(state.Messages)+1)
	history = append(history, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})
	history = append(history, state.Messages...)

	result, err := n.llmProvider.Chat(ctx, history, llm.WithTemperature(0.7))
	if err != nil {
		// A chat turn must always produce a response. Usage stays untouched:
		// the fallback path adds zero.
		n.logger.Error("agent", "LLM processing failed", map[string]interface{}{
			"user_id": state.UserId,
			"error":   err.Error(),
		})
		state.AppendMessage(constant.ChatMessageRoleAssistant, constant.FallbackChatResponse)
		return
	}

	state.AppendMessage(constant.ChatMessageRoleAssistant, result.Content)
	state.AddUsage(result.Usage)

	n.logger.Info("agent", "Token usage", map[string]interface{}{
		"input":  result.Usage.InputTokens,
		"output": result.Usage.OutputTokens,
		"total":  result.Usage.TotalTokens,
	})
}
