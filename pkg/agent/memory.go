package agent

import (
	"context"

	"bejo-chatbot-be/internal/pkg/logger"
)

// memoryNode persists the conversation into the user's long-term memory.
// A failed write is logged and never fails the run.
type memoryNode struct {
	memory MemoryGateway
	logger logger.ILogger
}

func (n *memoryNode) run(ctx context.Context, state *ConversationState) {
	if n.memory.Append(ctx, state.Messages, state.UserId) {
		n.logger.Info("agent", "Successfully stored conversation", map[string]interface{}{
			"user_id": state.UserId,
		})
		return
	}
	n.logger.Warn("agent", "Failed to store conversation", map[string]interface{}{
		"user_id": state.UserId,
	})
}
