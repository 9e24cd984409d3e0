package controller

import (
	"travel-assistant-be/internal/dto"
	"travel-assistant-be/internal/pkg/serverutils"
	"travel-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.SendChat)
	h.Post("session", c.CreateSession)
	h.Get("session/:id/history", c.GetChatHistory)
	h.Delete("session/:id", c.DeleteSession)
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer query", res))
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.chatService.CreateSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatController) GetChatHistory(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.chatService.GetChatHistory(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show chat history", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid session id")
	}

	if err := c.chatService.DeleteSession(ctx.Context(), &dto.DeleteSessionRequest{SessionId: id}); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", nil))
}
