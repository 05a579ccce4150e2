package vectorstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/philippgille/chromem-go"

	"bejo-chatbot-be/pkg/embedding"
)

// Client wraps a chromem-go database holding every named vector collection
// (knowledge tiers and user memory). One instance lives for the whole process.
type Client struct {
	db   *chromem.DB
	dims int
}

// NewClient opens the vector database. An empty path keeps everything
// in memory, which is what the tests use.
func NewClient(path string, dims int) (*Client, error) {
	var db *chromem.DB
	var err error
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open vector database: %w", err)
		}
	}
	return &Client{db: db, dims: dims}, nil
}

func (c *Client) Dims() int {
	return c.dims
}

// Has reports whether the named collection exists.
func (c *Client) Has(name string) bool {
	return c.db.GetCollection(name, noEmbedding) != nil
}

// Get returns the named collection, or nil when absent.
func (c *Client) Get(name string) *chromem.Collection {
	return c.db.GetCollection(name, noEmbedding)
}

// Create creates the named collection with the configured vector dimension.
// chromem-go always ranks by cosine similarity, matching the embedding
// providers which normalize their vectors.
func (c *Client) Create(name string) (*chromem.Collection, error) {
	col, err := c.db.CreateCollection(name, collectionMetadata(c.dims), noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return col, nil
}

// GetOrCreate returns the named collection, creating it lazily when absent.
func (c *Client) GetOrCreate(name string) (*chromem.Collection, error) {
	col, err := c.db.GetOrCreateCollection(name, collectionMetadata(c.dims), noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("get or create collection %s: %w", name, err)
	}
	return col, nil
}

func collectionMetadata(dims int) map[string]string {
	return map[string]string{
		"embedding_dims": strconv.Itoa(dims),
		"distance":       "cosine",
	}
}

// noEmbedding is installed as every collection's embedding function. All
// embeddings are computed explicitly through the EmbeddingProvider so the task
// type (document vs query) stays under the caller's control; a document or
// query reaching chromem without a vector is a programming error.
func noEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("embedding must be computed by the embedding provider, not the collection")
}

// EmbedText computes one embedding through the provider with the given Gemini
// task type ("RETRIEVAL_DOCUMENT", "RETRIEVAL_QUERY", "SEMANTIC_SIMILARITY").
func EmbedText(provider embedding.EmbeddingProvider, text, taskType string) ([]float32, error) {
	res, err := provider.Generate(text, taskType)
	if err != nil {
		return nil, err
	}
	return res.Embedding.Values, nil
}
