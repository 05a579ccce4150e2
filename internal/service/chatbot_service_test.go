package service

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bejo-chatbot-be/internal/constant"
	"bejo-chatbot-be/internal/dto"
	"bejo-chatbot-be/pkg/agent"
	"bejo-chatbot-be/pkg/knowledge"
	"bejo-chatbot-be/pkg/llm"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{}) {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }

type stubSearcher struct{}

func (stubSearcher) Search(_ context.Context, _ string, _ []string, _ int) []knowledge.SearchResult {
	return nil
}

type stubMemory struct{}

func (stubMemory) Search(_ context.Context, _, _ string) string { return "" }
func (stubMemory) Append(_ context.Context, _ []llm.Message, _ string) bool { return true }

type stubLLM struct{}

func (stubLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (*llm.ChatResult, error) {
	return &llm.ChatResult{
		Content: "jawaban uji",
		Usage:   llm.TokenUsage{InputTokens: 7, OutputTokens: 3, TotalTokens: 10},
	}, nil
}

func (s stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.ChatResult, error) {
	return s.Chat(ctx, nil, opts...)
}

func newTestChatbotService() IChatbotService {
	pipeline := agent.NewPipeline(stubSearcher{}, stubMemory{}, stubLLM{}, nopLogger{})
	return NewChatbotService(pipeline, nopLogger{})
}

func TestChatbotServiceChat(t *testing.T) {
	svc := newTestChatbotService()

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Input:    "halo",
		Category: 2,
		UserId:   "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "jawaban uji", res.Response)
	assert.Equal(t, 7, res.InputTokens)
	assert.Equal(t, 3, res.OutputTokens)
	assert.Equal(t, 10, res.TotalTokens)
}

func TestChatbotServiceChatRejectsInvalidTier(t *testing.T) {
	svc := newTestChatbotService()

	tests := []struct {
		name     string
		category int
	}{
		{name: "below minimum", category: constant.MinAccessTier - 1},
		{name: "above maximum", category: constant.MaxAccessTier + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Chat(context.Background(), &dto.ChatRequest{
				Input:    "halo",
				Category: tt.category,
				UserId:   "user-1",
			})
			require.Error(t, err)

			fErr, ok := err.(*fiber.Error)
			require.True(t, ok)
			assert.Equal(t, fiber.StatusBadRequest, fErr.Code)
		})
	}
}
