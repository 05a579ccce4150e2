package memory

import (
	"context"
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bejo-chatbot-be/internal/constant"
	"bejo-chatbot-be/pkg/embedding"
	"bejo-chatbot-be/pkg/llm"
	"bejo-chatbot-be/pkg/vectorstore"
)

const testDims = 8

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{}) {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }

type stubEmbedder struct{}

func (stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	values := make([]float32, testDims)
	for i := range values {
		seed = seed*1664525 + 1013904223
		values[i] = float32(seed%1000)/1000.0 + 0.01
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: values},
	}, nil
}

func newTestService(t *testing.T) IMemoryService {
	t.Helper()
	client, err := vectorstore.NewClient("", testDims)
	require.NoError(t, err)
	return NewMemoryService(client, stubEmbedder{}, 5, nopLogger{})
}

func TestMemorySearchEmptyBeforeFirstWrite(t *testing.T) {
	svc := newTestService(t)
	assert.Equal(t, "", svc.Search(context.Background(), "siapa saya?", "user-1"))
}

func TestMemoryAppendPersistsOnlyUserTurns(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	turns := []llm.Message{
		{Role: constant.ChatMessageRoleUser, Content: "Nama saya Sari."},
		{Role: constant.ChatMessageRoleAssistant, Content: "Halo Sari!"},
		{Role: constant.ChatMessageRoleUser, Content: "Saya tinggal di Bandung."},
	}
	require.True(t, svc.Append(ctx, turns, "user-1"))

	found := svc.Search(ctx, "Nama saya Sari.", "user-1")
	assert.Contains(t, found, "Nama saya Sari.")
	assert.NotContains(t, found, "Halo Sari!")
}

func TestMemoryAppendNoUserTurnsIsNoop(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	turns := []llm.Message{
		{Role: constant.ChatMessageRoleAssistant, Content: "Hanya jawaban."},
	}
	assert.True(t, svc.Append(ctx, turns, "user-1"))
	assert.Equal(t, "", svc.Search(ctx, "Hanya jawaban.", "user-1"))
}

func TestMemorySearchIsScopedPerUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.True(t, svc.Append(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleUser, Content: "Rahasia milik user satu."},
	}, "user-1"))

	assert.Contains(t, svc.Search(ctx, "Rahasia milik user satu.", "user-1"), "Rahasia")
	assert.Equal(t, "", svc.Search(ctx, "Rahasia milik user satu.", "user-2"))
}
