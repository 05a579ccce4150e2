package embedding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
}

func (p *countingProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	p.calls++
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: []float32{float32(len(text))}},
	}, nil
}

func TestCachedProviderHitsCacheOnRepeat(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Minute)

	first, err := cached.Generate("same text", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	second, err := cached.Generate("same text", "RETRIEVAL_QUERY")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.Embedding.Values, second.Embedding.Values)
}

func TestCachedProviderKeysOnTaskType(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Minute)

	_, err := cached.Generate("same text", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	_, err = cached.Generate("same text", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)

	// Same text embedded for documents and queries are different points.
	assert.Equal(t, 2, inner.calls)
}

func TestCachedProviderKeysOnText(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Minute)

	_, err := cached.Generate("text one", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	_, err = cached.Generate("text two", "RETRIEVAL_QUERY")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}
