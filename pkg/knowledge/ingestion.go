package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"bejo-chatbot-be/internal/constant"
	"bejo-chatbot-be/internal/pkg/logger"
	"bejo-chatbot-be/pkg/knowledge/converter"
	"bejo-chatbot-be/pkg/utils"
)

// ProgressEvent is one record in the ingestion progress sequence. Progress is
// coarse and non-decreasing; it reaches 100 only on success or on the
// idempotent file-exists stop.
type ProgressEvent struct {
	Step     string
	Message  string
	Progress int
	Error    bool
	Stopped  bool
	Data     map[string]interface{}
}

// IngestionPipeline drives one uploaded document through validation, saving,
// hashing, deduplication, conversion, chunking and indexing, emitting a
// progress event around every step. Providers are process-scoped singletons
// injected at startup.
type IngestionPipeline struct {
	store     IStore
	converter converter.IConverter
	uploadDir string
	baseURL   string
	chunkSize int
	logger    logger.ILogger
}

func NewIngestionPipeline(
	store IStore,
	docConverter converter.IConverter,
	uploadDir, baseURL string,
	chunkSize int,
	sysLogger logger.ILogger,
) *IngestionPipeline {
	return &IngestionPipeline{
		store:     store,
		converter: docConverter,
		uploadDir: uploadDir,
		baseURL:   baseURL,
		chunkSize: chunkSize,
		logger:    sysLogger,
	}
}

// Run executes the pipeline on its own goroutine and returns the event
// stream. The channel is closed after exactly one terminal event (completed,
// stopped, or error). When the consumer's context ends mid-run, delivery and
// the remaining steps stop; already-saved files stay on disk.
func (p *IngestionPipeline) Run(ctx context.Context, fileContent []byte, safeFilename string, accessTier int) <-chan ProgressEvent {
	events := make(chan ProgressEvent)
	go func() {
		defer close(events)
		p.run(ctx, events, fileContent, safeFilename, accessTier)
	}()
	return events
}

func (p *IngestionPipeline) run(ctx context.Context, events chan<- ProgressEvent, fileContent []byte, safeFilename string, accessTier int) {
	destPath := filepath.Join(p.uploadDir, safeFilename)
	publicURL := fmt.Sprintf("%s/uploads/%s", p.baseURL, safeFilename)
	collectionName := constant.KnowledgeCollectionName(accessTier)

	emit := func(ev ProgressEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			p.logger.Warn("ingestion", "Progress consumer gone, stopping pipeline", map[string]interface{}{
				"filename": safeFilename,
				"step":     ev.Step,
			})
			return false
		}
	}
	fail := func(step, message string, progress int) {
		emit(ProgressEvent{Step: step, Message: message, Progress: progress, Error: true})
	}

	// STEP 1: filename collision is a completed no-op, not an error, so
	// re-uploading the same file name stays idempotent without overwrite.
	if err := os.MkdirAll(p.uploadDir, 0o755); err != nil {
		fail("error", fmt.Sprintf("Failed to prepare upload directory: %v", err), 0)
		return
	}
	if _, err := os.Stat(destPath); err == nil {
		emit(ProgressEvent{
			Step:     "file_exists",
			Message:  fmt.Sprintf("File '%s' already exists. Process stopped.", safeFilename),
			Progress: 100,
			Stopped:  true,
			Data: map[string]interface{}{
				"file_path": destPath,
				"url":       publicURL,
			},
		})
		return
	}

	// STEP 2: validate and save.
	if !emit(ProgressEvent{Step: "saving_file", Message: "Saving file...", Progress: 10}) {
		return
	}
	if len(fileContent) == 0 {
		fail("error", "Uploaded file is empty or unreadable", 10)
		return
	}
	if err := os.WriteFile(destPath, fileContent, 0o644); err != nil {
		fail("error", fmt.Sprintf("Error saving file: %v", err), 10)
		return
	}
	if stat, err := os.Stat(destPath); err != nil || stat.Size() == 0 {
		fail("error", "File was not saved properly", 10)
		return
	}
	if !emit(ProgressEvent{Step: "file_saved", Message: "File saved successfully", Progress: 20}) {
		return
	}

	// STEP 3: providers are injected singletons; verify readiness.
	if !emit(ProgressEvent{Step: "initializing", Message: "Initializing...", Progress: 30}) {
		return
	}
	if p.store == nil || p.converter == nil {
		fail("error", "Failed to initialize components: providers unavailable", 30)
		return
	}
	if !emit(ProgressEvent{Step: "component_ready", Message: "Component ready", Progress: 40}) {
		return
	}

	// STEP 4: the dedup identity is the file's hash, independent of filename.
	sum := sha256.Sum256(fileContent)
	fileHash := hex.EncodeToString(sum[:])

	// STEP 5: duplicate check. A missing collection means "no duplicate".
	if !emit(ProgressEvent{Step: "duplicate_check", Message: "Checking for duplicate content...", Progress: 45}) {
		return
	}
	if p.store.Exists(ctx, collectionName, fileHash) {
		fail("error", fmt.Sprintf("File already exists in collection (hash: %s)", fileHash), 45)
		return
	}

	// STEP 6: convert.
	if !emit(ProgressEvent{Step: "converting", Message: "Converting...", Progress: 50}) {
		return
	}
	converted, err := p.converter.Convert(destPath)
	if err != nil {
		fail("error", fmt.Sprintf("Failed to convert document: %v", err), 50)
		return
	}
	if !emit(ProgressEvent{Step: "converted", Message: "Document converted", Progress: 60}) {
		return
	}

	// STEP 7: chunk.
	if !emit(ProgressEvent{Step: "splitting", Message: "Chunking document...", Progress: 70}) {
		return
	}
	chunkTexts := utils.SplitText(converted.Markdown, p.chunkSize, 0)
	if len(chunkTexts) == 0 {
		fail("error", "Failed to split document: no chunks produced", 70)
		return
	}
	if !emit(ProgressEvent{
		Step:     "chunked",
		Message:  fmt.Sprintf("Document chunked - Total: %d", len(chunkTexts)),
		Progress: 80,
	}) {
		return
	}

	// STEP 8: index. The saved file is kept on failure so a later attempt can
	// re-process it.
	if !emit(ProgressEvent{Step: "vectorizing", Message: "Vectorizing and storing...", Progress: 85}) {
		return
	}
	if !p.store.HasCollection(collectionName) {
		if !emit(ProgressEvent{
			Step:     "collection_not_found",
			Message:  fmt.Sprintf("Collection %s not found. Creating...", collectionName),
			Progress: 87,
		}) {
			return
		}
		if err := p.store.CreateCollection(ctx, collectionName); err != nil {
			fail("error", fmt.Sprintf("Failed to setup collection: %v", err), 87)
			return
		}
		if !emit(ProgressEvent{
			Step:     "collection_created",
			Message:  fmt.Sprintf("Collection %s created", collectionName),
			Progress: 90,
		}) {
			return
		}
	}

	chunks := make([]Chunk, len(chunkTexts))
	for i, text := range chunkTexts {
		chunks[i] = Chunk{
			Content:     text,
			SourceURL:   publicURL,
			Filename:    converted.Filename,
			MimeType:    converted.MimeType,
			AccessTier:  accessTier,
			ContentHash: fileHash,
		}
	}
	if err := p.store.Upsert(ctx, collectionName, chunks); err != nil {
		fail("error", fmt.Sprintf("Failed to add documents: %v", err), 90)
		return
	}
	if !emit(ProgressEvent{
		Step:     "documents_added",
		Message:  fmt.Sprintf("Added %d chunks to %s", len(chunks), collectionName),
		Progress: 95,
	}) {
		return
	}

	// STEP 9: complete.
	emit(ProgressEvent{
		Step:     "completed",
		Message:  fmt.Sprintf("Successfully processed with %d chunks", len(chunks)),
		Progress: 100,
		Data: map[string]interface{}{
			"file_path":       destPath,
			"url":             publicURL,
			"filename":        safeFilename,
			"category_level":  accessTier,
			"chunks_count":    len(chunks),
			"collection_name": collectionName,
			"file_hash":       fileHash,
		},
	})
}
