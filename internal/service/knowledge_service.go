package service

import (
	"context"
	"regexp"

	"bejo-chatbot-be/internal/dto"
	"bejo-chatbot-be/internal/pkg/logger"
	"bejo-chatbot-be/pkg/knowledge"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

type IKnowledgeService interface {
	Upload(ctx context.Context, fileContent []byte, filename string, accessTier int) <-chan dto.UploadProgressEvent
}

type knowledgeService struct {
	pipeline  *knowledge.IngestionPipeline
	publisher IPublisherService
	logger    logger.ILogger
}

func NewKnowledgeService(
	pipeline *knowledge.IngestionPipeline,
	publisher IPublisherService,
	sysLogger logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		pipeline:  pipeline,
		publisher: publisher,
		logger:    sysLogger,
	}
}

// SanitizeFilename replaces every character outside [a-zA-Z0-9_.-] with an
// underscore so the stored name is safe as a path segment and a URL segment.
func SanitizeFilename(filename string) string {
	return unsafeFilenameChars.ReplaceAllString(filename, "_")
}

// Upload runs the ingestion pipeline and relays its progress events. When a
// run completes, a knowledge.indexed event is published for downstream
// consumers before the stream closes.
func (ks *knowledgeService) Upload(ctx context.Context, fileContent []byte, filename string, accessTier int) <-chan dto.UploadProgressEvent {
	safeFilename := SanitizeFilename(filename)

	out := make(chan dto.UploadProgressEvent)
	go func() {
		defer close(out)
		for ev := range ks.pipeline.Run(ctx, fileContent, safeFilename, accessTier) {
			if ev.Step == "completed" {
				ks.publishIndexed(ev)
			}
			select {
			case out <- dto.UploadProgressEvent{
				Step:     ev.Step,
				Message:  ev.Message,
				Progress: ev.Progress,
				Error:    ev.Error,
				Stopped:  ev.Stopped,
				Data:     ev.Data,
			}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (ks *knowledgeService) publishIndexed(ev knowledge.ProgressEvent) {
	msg := dto.PublishKnowledgeIndexedMessage{}
	if v, ok := ev.Data["filename"].(string); ok {
		msg.Filename = v
	}
	if v, ok := ev.Data["collection_name"].(string); ok {
		msg.CollectionName = v
	}
	if v, ok := ev.Data["category_level"].(int); ok {
		msg.CategoryLevel = v
	}
	if v, ok := ev.Data["chunks_count"].(int); ok {
		msg.ChunksCount = v
	}
	if v, ok := ev.Data["file_hash"].(string); ok {
		msg.FileHash = v
	}
	if v, ok := ev.Data["url"].(string); ok {
		msg.URL = v
	}

	if err := ks.publisher.PublishKnowledgeIndexed(msg); err != nil {
		ks.logger.Warn("knowledge-service", "Failed to publish indexed event", map[string]interface{}{
			"filename": msg.Filename,
			"error":    err.Error(),
		})
	}
}
