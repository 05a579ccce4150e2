package memory

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"bejo-chatbot-be/internal/constant"
	"bejo-chatbot-be/internal/pkg/logger"
	"bejo-chatbot-be/pkg/embedding"
	"bejo-chatbot-be/pkg/llm"
	"bejo-chatbot-be/pkg/vectorstore"
)

// IMemoryService is the per-user long-term memory gateway. Memory is best
// effort: every failure degrades to a neutral result and never blocks the
// conversation.
type IMemoryService interface {
	// Search returns matched memory snippets newline-joined, or "" when there
	// are none or the lookup fails.
	Search(ctx context.Context, query, userId string) string

	// Append persists the user-authored turns for this user. Returns false on
	// failure instead of an error.
	Append(ctx context.Context, turns []llm.Message, userId string) bool
}

type memoryService struct {
	client   *vectorstore.Client
	embedder embedding.EmbeddingProvider
	topK     int
	logger   logger.ILogger
}

func NewMemoryService(client *vectorstore.Client, embedder embedding.EmbeddingProvider, topK int, sysLogger logger.ILogger) IMemoryService {
	return &memoryService{
		client:   client,
		embedder: embedder,
		topK:     topK,
		logger:   sysLogger,
	}
}

func (m *memoryService) Search(ctx context.Context, query, userId string) string {
	col := m.client.Get(constant.MemoryCollectionName)
	if col == nil {
		return ""
	}

	n := m.topK
	if count := col.Count(); count < n {
		n = count
	}
	if n == 0 {
		return ""
	}

	queryVec, err := vectorstore.EmbedText(m.embedder, query, "SEMANTIC_SIMILARITY")
	if err != nil {
		m.logger.Error("memory", "Failed to embed memory query", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return ""
	}

	matches, err := col.QueryEmbedding(ctx, queryVec, n, map[string]string{"user_id": userId}, nil)
	if err != nil {
		m.logger.Error("memory", "Failed to search user memory", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return ""
	}

	snippets := make([]string, 0, len(matches))
	for _, match := range matches {
		if match.Content != "" {
			snippets = append(snippets, match.Content)
		}
	}

	m.logger.Info("memory", "Found memory items for user", map[string]interface{}{
		"user_id": userId,
		"count":   len(snippets),
	})

	return strings.Join(snippets, "\n")
}

// Append stores only user-authored turns. Assistant turns are intentionally
// excluded so the model never gets its own prior phrasing echoed back as
// "memory".
func (m *memoryService) Append(ctx context.Context, turns []llm.Message, userId string) bool {
	col, err := m.client.GetOrCreate(constant.MemoryCollectionName)
	if err != nil {
		m.logger.Error("memory", "Failed to open memory collection", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return false
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var docs []chromem.Document
	for _, turn := range turns {
		if turn.Role != constant.ChatMessageRoleUser {
			continue
		}
		vec, err := vectorstore.EmbedText(m.embedder, turn.Content, "SEMANTIC_SIMILARITY")
		if err != nil {
			m.logger.Error("memory", "Failed to embed memory item", map[string]interface{}{
				"user_id": userId,
				"error":   err.Error(),
			})
			return false
		}
		docs = append(docs, chromem.Document{
			ID:        uuid.NewString(),
			Content:   turn.Content,
			Embedding: vec,
			Metadata: map[string]string{
				"user_id":    userId,
				"role":       turn.Role,
				"created_at": now,
			},
		})
	}

	if len(docs) == 0 {
		return true
	}

	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		m.logger.Error("memory", "Failed to store conversation", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return false
	}

	m.logger.Info("memory", "Stored conversation for user", map[string]interface{}{
		"user_id": userId,
		"items":   len(docs),
	})
	return true
}
