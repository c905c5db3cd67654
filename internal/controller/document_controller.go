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

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Templates(ctx *fiber.Ctx) error
	Template(ctx *fiber.Ctx) error
	AnalyzeRepository(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
	analysisService service.IRepoAnalysisService
}

func NewDocumentController(documentService service.IDocumentService, analysisService service.IRepoAnalysisService) IDocumentController {
	return &documentController{
		documentService: documentService,
		analysisService: analysisService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Get("templates", c.Templates)
	h.Get("templates/:type", c.Template)

	h.Use(serverutils.JwtMiddleware)
	h.Get(":id/status", c.Status)
	h.Post(":id/export", c.Export)
	h.Post("analyze-repository", c.AnalyzeRepository)
}

func (c *documentController) Status(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	res, err := c.documentService.Status(ctx.Context(), userId, sessionId)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document status", res))
}

func (c *documentController) Export(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	var req dto.ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Export(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		case errors.Is(err, service.ErrDocumentIncomplete):
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
		}
		return err
	}

	if res.Emailed {
		return ctx.JSON(serverutils.SuccessResponse("Document sent by email", map[string]string{
			"file_name": res.FileName,
		}))
	}

	ctx.Set(fiber.HeaderContentType, res.MediaType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.FileName+`"`)
	return ctx.Send(res.Content)
}

func (c *documentController) Templates(ctx *fiber.Ctx) error {
	res, err := c.documentService.Templates(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document templates", res))
}

func (c *documentController) Template(ctx *fiber.Ctx) error {
	res, err := c.documentService.Template(ctx.Context(), ctx.Params("type"))
	if err != nil {
		if errors.Is(err, schema.ErrUnknownDocumentType) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document template", res))
}

func (c *documentController) AnalyzeRepository(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.AnalyzeRepositoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.analysisService.Analyze(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Repository analyzed", res))
}
