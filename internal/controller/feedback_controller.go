package controller

import (
	"travel-assistant-be/internal/dto"
	"travel-assistant-be/internal/pkg/serverutils"
	"travel-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type feedbackController struct {
	feedbackService service.IFeedbackService
}

func NewFeedbackController(feedbackService service.IFeedbackService) IFeedbackController {
	return &feedbackController{
		feedbackService: feedbackService,
	}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/feedback/v1")
	h.Post("", c.Submit)
	h.Get("stats", c.Stats)
}

func (c *feedbackController) Submit(ctx *fiber.Ctx) error {
	var req dto.SubmitFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.feedbackService.Submit(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit feedback", res))
}

func (c *feedbackController) Stats(ctx *fiber.Ctx) error {
	res, err := c.feedbackService.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show feedback stats", res))
}
