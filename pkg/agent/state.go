package agent

import (
	"bejo-chatbot-be/pkg/llm"
)

// ConversationState is the mutable record threaded through one pipeline run.
// It is created per chat request, owned exclusively by that run, and discarded
// once the result is extracted.
type ConversationState struct {
	Messages           []llm.Message
	UserId             string
	AccessTier         int
	UserMemory         string
	RetrievedKnowledge string
	InputTokens        int
	OutputTokens       int
	TotalTokens        int
}

func NewConversationState(input, userId string, accessTier int) *ConversationState {
	return &ConversationState{
		Messages: []llm.Message{
			{Role: "user", Content: input},
		},
		UserId:     userId,
		AccessTier: accessTier,
	}
}

// LastMessage returns the newest turn. The state always holds at least the
// initial user turn.
func (s *ConversationState) LastMessage() llm.Message {
	return s.Messages[len(s.Messages)-1]
}

func (s *ConversationState) AppendMessage(role, content string) {
	s.Messages = append(s.Messages, llm.Message{Role: role, Content: content})
}

// AddUsage accumulates token counters. Counters only ever grow within a run.
func (s *ConversationState) AddUsage(usage llm.TokenUsage) {
	s.InputTokens += usage.InputTokens
	s.OutputTokens += usage.OutputTokens
	s.TotalTokens += usage.TotalTokens
}
