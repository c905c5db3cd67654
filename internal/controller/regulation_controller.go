package controller

import (
	"ai-compliance-be/internal/dto"
	"ai-compliance-be/internal/pkg/serverutils"
	"ai-compliance-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRegulationController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
}

type regulationController struct {
	regulationService service.IRegulationService
}

func NewRegulationController(regulationService service.IRegulationService) IRegulationController {
	return &regulationController{
		regulationService: regulationService,
	}
}

func (c *regulationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/regulation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("ask", c.Ask)
	h.Post("reindex", c.Reindex)
}

func (c *regulationController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRegulationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.regulationService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Regulation answer", res))
}

func (c *regulationController) Reindex(ctx *fiber.Ctx) error {
	res, err := c.regulationService.Reindex(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reindex queued", res))
}
