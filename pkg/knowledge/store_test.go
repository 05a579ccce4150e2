package knowledge

import (
	"context"
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bejo-chatbot-be/pkg/embedding"
	"bejo-chatbot-be/pkg/vectorstore"
)

const testDims = 8

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{}) {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }

// stubEmbedder maps text deterministically to a vector, so identical text
// always lands on the same point.
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

func newTestStore(t *testing.T) IStore {
	t.Helper()
	client, err := vectorstore.NewClient("", testDims)
	require.NoError(t, err)
	return NewStore(client, stubEmbedder{}, nopLogger{})
}

func TestStoreUpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	chunks := []Chunk{
		{Content: "Bejo membantu petani jagung.", SourceURL: "http://localhost:3000/uploads/a.pdf", Filename: "a.pdf", MimeType: "application/pdf", AccessTier: 1, ContentHash: "hash-a"},
		{Content: "Harga pupuk naik tahun ini.", SourceURL: "http://localhost:3000/uploads/a.pdf", Filename: "a.pdf", MimeType: "application/pdf", AccessTier: 1, ContentHash: "hash-a"},
	}
	require.NoError(t, store.Upsert(ctx, "knowledge-level-1", chunks))

	results := store.Search(ctx, "Bejo membantu petani jagung.", []string{"knowledge-level-1"}, 2)
	require.NotEmpty(t, results)
	assert.Equal(t, "Bejo membantu petani jagung.", results[0].Content)
	assert.Equal(t, "http://localhost:3000/uploads/a.pdf", results[0].Source)
}

func TestStoreSearchSkipsMissingCollections(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, "knowledge-level-1", []Chunk{
		{Content: "Level satu saja.", SourceURL: "u", ContentHash: "h1"},
	}))

	// Level 4 was never created. Retrieval still returns level 1 content.
	results := store.Search(ctx, "Level satu saja.", []string{"knowledge-level-4", "knowledge-level-1"}, 2)
	require.Len(t, results, 1)
	assert.Equal(t, "Level satu saja.", results[0].Content)
}

func TestStoreSearchClampsLimitToCollectionSize(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, "knowledge-level-2", []Chunk{
		{Content: "Satu-satunya dokumen.", SourceURL: "u", ContentHash: "h1"},
	}))

	// Asking for more results than documents must not error out.
	results := store.Search(ctx, "Satu-satunya dokumen.", []string{"knowledge-level-2"}, 5)
	require.Len(t, results, 1)
}

func TestStoreSearchDeduplicatesAcrossCollections(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	shared := Chunk{Content: "Konten yang sama.", SourceURL: "u", ContentHash: "h"}
	require.NoError(t, store.Upsert(ctx, "knowledge-level-1", []Chunk{shared}))
	require.NoError(t, store.Upsert(ctx, "knowledge-level-2", []Chunk{shared}))

	results := store.Search(ctx, "Konten yang sama.", []string{"knowledge-level-2", "knowledge-level-1"}, 2)
	assert.Len(t, results, 1)
}

func TestStoreExists(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// Missing collection counts as no duplicate.
	assert.False(t, store.Exists(ctx, "knowledge-level-3", "deadbeef"))

	require.NoError(t, store.Upsert(ctx, "knowledge-level-3", []Chunk{
		{Content: "Isi dokumen.", SourceURL: "u", ContentHash: "deadbeef"},
	}))

	assert.True(t, store.Exists(ctx, "knowledge-level-3", "deadbeef"))
	assert.False(t, store.Exists(ctx, "knowledge-level-3", "cafebabe"))
}

func TestStoreHasAndCreateCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	assert.False(t, store.HasCollection("knowledge-level-1"))
	require.NoError(t, store.CreateCollection(ctx, "knowledge-level-1"))
	assert.True(t, store.HasCollection("knowledge-level-1"))
}
