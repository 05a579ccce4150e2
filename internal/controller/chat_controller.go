package controller

import (
	"github.com/gofiber/fiber/v2"

	"bejo-chatbot-be/internal/dto"
	"bejo-chatbot-be/internal/pkg/serverutils"
	"bejo-chatbot-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatController struct {
	chatbotService service.IChatbotService
}

func NewChatController(chatbotService service.IChatbotService) IChatController {
	return &chatController{
		chatbotService: chatbotService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/api/v1")
	h.Post("chat", c.Chat)
	h.Get("health", c.Health)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", fiber.Map{
		"status": "healthy",
	}))
}
