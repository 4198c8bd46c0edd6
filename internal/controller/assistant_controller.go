package controller

import (
	"strings"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/constant"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/dto"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1")
	h.Post("chat", c.Chat)
}

// Chat speaks the flat turn contract rather than the management
// envelope: every field sits at the top level and errors carry
// {error, details} so existing chat frontends keep working.
func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	if strings.TrimSpace(req.Query) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Query is required",
			"details": "Body must contain a non-empty \"query\" field",
		})
	}

	res, err := c.assistantService.Chat(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   constant.InternalErrorReply,
			"details": err.Error(),
		})
	}

	return ctx.JSON(res)
}
