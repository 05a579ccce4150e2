package agent

import (
	"context"
	"fmt"

	"bejo-chatbot-be/internal/constant"
	"bejo-chatbot-be/internal/pkg/logger"
	"bejo-chatbot-be/pkg/llm"
)

// Pipeline is the conversation state machine. The flow is fixed and linear:
//
//	retrieval → processing → memory
//
// Each node mutates the run-scoped state; no node may abort the run. The
// terminal state carries the reply and the token counters.
type Pipeline struct {
	nodes  []pipelineNode
	logger logger.ILogger
}

type pipelineNode struct {
	name string
	run  func(ctx context.Context, state *ConversationState)
}

func NewPipeline(
	store KnowledgeSearcher,
	memoryGateway MemoryGateway,
	llmProvider llm.LLMProvider,
	sysLogger logger.ILogger,
) *Pipeline {
	retrieval := &retrievalNode{store: store, logger: sysLogger}
	processing := &processingNode{memory: memoryGateway, llmProvider: llmProvider, logger: sysLogger}
	persist := &memoryNode{memory: memoryGateway, logger: sysLogger}

	return &Pipeline{
		nodes: []pipelineNode{
			{name: "retrieval", run: retrieval.run},
			{name: "processing", run: processing.run},
			{name: "memory", run: persist.run},
		},
		logger: sysLogger,
	}
}

// Run drives the state through every node in order and returns the terminal
// state. Nothing escapes the pipeline: a panicking node is caught and the
// state still ends with an assistant turn.
func (p *Pipeline) Run(ctx context.Context, state *ConversationState) *ConversationState {
	for _, node := range p.nodes {
		p.runNode(ctx, node, state)
	}

	if state.LastMessage().Role != constant.ChatMessageRoleAssistant {
		state.AppendMessage(constant.ChatMessageRoleAssistant, constant.FallbackChatResponse)
	}
	return state
}

func (p *Pipeline) runNode(ctx context.Context, node pipelineNode, state *ConversationState) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("agent", "Pipeline node panicked", map[string]interface{}{
				"node":  node.name,
				"panic": fmt.Sprintf("%v", r),
			})
		}
	}()
	node.run(ctx, state)
}
