package knowledge

import (
	"context"
	"runtime"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"bejo-chatbot-be/internal/pkg/logger"
	"bejo-chatbot-be/pkg/embedding"
	"bejo-chatbot-be/pkg/vectorstore"
)

// Chunk is one unit of indexed text. Every chunk split from the same file
// shares that file's content hash.
type Chunk struct {
	Content     string
	SourceURL   string
	Filename    string
	MimeType    string
	AccessTier  int
	ContentHash string
}

// SearchResult is one retrieved chunk with its source metadata.
type SearchResult struct {
	Content string
	Source  string
}

// IStore is the uniform gateway to the per-tier vector collections.
type IStore interface {
	Search(ctx context.Context, query string, collections []string, perCollectionLimit int) []SearchResult
	HasCollection(name string) bool
	CreateCollection(ctx context.Context, name string) error
	Exists(ctx context.Context, collection, contentHash string) bool
	Upsert(ctx context.Context, collection string, chunks []Chunk) error
}

type store struct {
	client   *vectorstore.Client
	embedder embedding.EmbeddingProvider
	logger   logger.ILogger
}

func NewStore(client *vectorstore.Client, embedder embedding.EmbeddingProvider, sysLogger logger.ILogger) IStore {
	return &store{
		client:   client,
		embedder: embedder,
		logger:   sysLogger,
	}
}

// Search queries each collection independently. A missing collection or a
// failing query is a soft failure: a higher tier's collection may simply not
// exist yet, and one broken tier must not abort the whole retrieval.
// Results identical across collections are returned once.
func (s *store) Search(ctx context.Context, query string, collections []string, perCollectionLimit int) []SearchResult {
	queryVec, err := vectorstore.EmbedText(s.embedder, query, "RETRIEVAL_QUERY")
	if err != nil {
		s.logger.Error("knowledge-store", "Failed to embed search query", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	var results []SearchResult
	seen := make(map[SearchResult]bool)

	for _, name := range collections {
		col := s.client.Get(name)
		if col == nil {
			s.logger.Warn("knowledge-store", "Collection not found, skipping", map[string]interface{}{
				"collection": name,
			})
			continue
		}

		n := perCollectionLimit
		if count := col.Count(); count < n {
			n = count
		}
		if n == 0 {
			continue
		}

		matches, err := col.QueryEmbedding(ctx, queryVec, n, nil, nil)
		if err != nil {
			s.logger.Warn("knowledge-store", "Failed to query collection", map[string]interface{}{
				"collection": name,
				"error":      err.Error(),
			})
			continue
		}

		for _, match := range matches {
			res := SearchResult{
				Content: match.Content,
				Source:  match.Metadata["source"],
			}
			if seen[res] {
				continue
			}
			seen[res] = true
			results = append(results, res)
		}

		s.logger.Info("knowledge-store", "Retrieved documents from collection", map[string]interface{}{
			"collection": name,
			"count":      len(matches),
		})
	}

	return results
}

func (s *store) HasCollection(name string) bool {
	return s.client.Has(name)
}

func (s *store) CreateCollection(ctx context.Context, name string) error {
	_, err := s.client.Create(name)
	return err
}

// Exists reports whether any indexed chunk carries the given content hash.
// A missing collection or a failed probe counts as "no duplicate" so a fresh
// tier never blocks its first upload.
func (s *store) Exists(ctx context.Context, collection, contentHash string) bool {
	col := s.client.Get(collection)
	if col == nil {
		return false
	}
	if col.Count() == 0 {
		return false
	}

	// Probe vector: only the metadata filter matters here, similarity order is
	// irrelevant for an existence check.
	probe := make([]float32, s.client.Dims())
	probe[0] = 1

	matches, err := col.QueryEmbedding(ctx, probe, 1, map[string]string{"file_hash": contentHash}, nil)
	if err != nil {
		s.logger.Warn("knowledge-store", "Duplicate probe failed, assuming no duplicate", map[string]interface{}{
			"collection": collection,
			"error":      err.Error(),
		})
		return false
	}
	return len(matches) > 0
}

// Upsert embeds and indexes the chunks, creating the collection lazily.
// Every chunk gets a fresh point id.
func (s *store) Upsert(ctx context.Context, collection string, chunks []Chunk) error {
	col, err := s.client.GetOrCreate(collection)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := vectorstore.EmbedText(s.embedder, chunk.Content, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return err
		}
		docs = append(docs, chromem.Document{
			ID:        uuid.NewString(),
			Content:   chunk.Content,
			Embedding: vec,
			Metadata: map[string]string{
				"source":         chunk.SourceURL,
				"filename":       chunk.Filename,
				"mimetype":       chunk.MimeType,
				"category_level": strconv.Itoa(chunk.AccessTier),
				"file_hash":      chunk.ContentHash,
			},
		})
	}

	return col.AddDocuments(ctx, docs, runtime.NumCPU())
}
