package controller

import (
	"errors"

	"ai-compliance-be/internal/dto"
	"ai-compliance-be/internal/pkg/serverutils"
	"ai-compliance-be/internal/service"
	"ai-compliance-be/pkg/schema"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	ConfirmFields(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type documentChatController struct {
	chatService service.IDocumentChatService
}

func NewDocumentChatController(chatService service.IDocumentChatService) IDocumentChatController {
	return &documentChatController{
		chatService: chatService,
	}
}

func (c *documentChatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("session", c.CreateSession)
	h.Get("sessions", c.GetAllSessions)
	h.Get("session/:id/history", c.GetChatHistory)
	h.Post("send", c.SendChat)
	h.Post("confirm", c.ConfirmFields)
	h.Delete("session/:id", c.DeleteSession)
}

func (c *documentChatController) CreateSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.CreateSession(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, schema.ErrUnknownDocumentType) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *documentChatController) GetAllSessions(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.chatService.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Sessions retrieved", res))
}

func (c *documentChatController) GetChatHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	res, err := c.chatService.GetChatHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

func (c *documentChatController) SendChat(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

func (c *documentChatController) ConfirmFields(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.ConfirmFieldsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.ConfirmFields(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Fields confirmed", res))
}

func (c *documentChatController) DeleteSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	if err := c.chatService.DeleteSession(ctx.Context(), userId, sessionId); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}
