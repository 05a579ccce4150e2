package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"bejo-chatbot-be/internal/constant"
	"bejo-chatbot-be/internal/dto"
	"bejo-chatbot-be/internal/pkg/logger"
	"bejo-chatbot-be/internal/service"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
	logger           logger.ILogger
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService, sysLogger logger.ILogger) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
		logger:           sysLogger,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/api/v1")
	h.Post("upload", c.Upload)
}

// Upload accepts a multipart document and streams ingestion progress as
// server-sent events. Validation errors are returned as plain JSON before
// the stream starts; once streaming, failures arrive as error events.
func (c *knowledgeController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	level, err := strconv.Atoi(ctx.FormValue("category_level"))
	if err != nil || level < constant.MinAccessTier || level > constant.MaxAccessTier {
		return fiber.NewError(fiber.StatusBadRequest, "category_level must be between 1 and 4")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
	}
	content, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to read uploaded file")
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	filename := fileHeader.Filename
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		// The fiber context is gone once this writer runs, so the stream gets
		// its own lifecycle tied to the client connection.
		streamCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := c.knowledgeService.Upload(streamCtx, content, filename, level)
		for ev := range events {
			if !c.writeEvent(w, ev) {
				cancel()
				for range events {
				}
				return
			}
		}
	}))

	return nil
}

func (c *knowledgeController) writeEvent(w *bufio.Writer, ev dto.UploadProgressEvent) bool {
	payload, err := json.Marshal(ev)
	if err != nil {
		c.logger.Error("knowledge-controller", "Failed to marshal progress event", map[string]interface{}{
			"step":  ev.Step,
			"error": err.Error(),
		})
		return true
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return false
	}
	return w.Flush() == nil
}
