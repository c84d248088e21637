package controller

import (
	"ai-studyaid-be/internal/dto"
	"ai-studyaid-be/internal/pkg/serverutils"
	"ai-studyaid-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	OCR(ctx *fiber.Ctx) error
	Summarize(ctx *fiber.Ctx) error
	QuizGen(ctx *fiber.Ctx) error
	MindmapGen(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type generationController struct {
	generationService service.IGenerationService
}

func NewGenerationController(generationService service.IGenerationService) IGenerationController {
	return &generationController{
		generationService: generationService,
	}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generation/v1")
	h.Post("ocr", c.OCR)
	h.Post("summarize", c.Summarize)
	h.Post("quiz", c.QuizGen)
	h.Post("mindmap", c.MindmapGen)
	h.Post("chat", c.Chat)
	h.Get("health", c.Health)
}

// requestUserId identifies the caller. Auth lives in front of this service,
// which forwards the resolved identity in a header.
func requestUserId(ctx *fiber.Ctx) uuid.UUID {
	userId, _ := uuid.Parse(ctx.Get("X-User-Id"))
	return userId
}

func (c *generationController) OCR(ctx *fiber.Ctx) error {
	var req dto.OCRRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.OCR(ctx.Context(), requestUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success extract text", res))
}

func (c *generationController) Summarize(ctx *fiber.Ctx) error {
	var req dto.SummarizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.Summarize(ctx.Context(), requestUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success summarize", res))
}

func (c *generationController) QuizGen(ctx *fiber.Ctx) error {
	var req dto.QuizGenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.QuizGen(ctx.Context(), requestUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate quiz", res))
}

func (c *generationController) MindmapGen(ctx *fiber.Ctx) error {
	var req dto.MindmapGenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.MindmapGen(ctx.Context(), requestUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate mindmap", res))
}

func (c *generationController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.Chat(ctx.Context(), requestUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer chat", res))
}

func (c *generationController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", fiber.Map{
		"strategies": c.generationService.StrategyTags(),
	}))
}
