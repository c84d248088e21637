package dto

import (
	"github.com/google/uuid"

	"ai-studyaid-be/pkg/generation"
)

type GenerationParamsDTO struct {
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type ContextRefsDTO struct {
	SessionId uuid.UUID `json:"session_id"`
	ImageId   uuid.UUID `json:"image_id"`
	Limit     int       `json:"limit" validate:"omitempty,min=1,max=50"`
}

type OCRRequest struct {
	ImageRef string              `json:"image_ref" validate:"required"`
	Hint     string              `json:"hint"`
	Params   GenerationParamsDTO `json:"params"`
	Context  ContextRefsDTO      `json:"context"`
}

type SummarizeRequest struct {
	Text    string              `json:"text" validate:"required,min=1"`
	Params  GenerationParamsDTO `json:"params"`
	Context ContextRefsDTO      `json:"context"`
}

type QuizGenRequest struct {
	Text    string              `json:"text" validate:"required,min=1"`
	Params  GenerationParamsDTO `json:"params"`
	Context ContextRefsDTO      `json:"context"`
}

type MindmapGenRequest struct {
	Text    string              `json:"text" validate:"required,min=1"`
	Params  GenerationParamsDTO `json:"params"`
	Context ContextRefsDTO      `json:"context"`
}

type ChatRequest struct {
	Query   string              `json:"query" validate:"required,min=1"`
	Params  GenerationParamsDTO `json:"params"`
	Context ContextRefsDTO      `json:"context"`
}

type GenerationResultDTO struct {
	Success          bool                 `json:"success"`
	Text             string               `json:"text,omitempty"`
	Artifact         *generation.Artifact `json:"artifact,omitempty"`
	MethodUsed       string               `json:"method_used"`
	Confidence       float64              `json:"confidence"`
	FromCache        bool                 `json:"from_cache"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
}

func NewGenerationResultDTO(r *generation.Result) *GenerationResultDTO {
	return &GenerationResultDTO{
		Success:          r.Success,
		Text:             r.Text,
		Artifact:         r.Artifact,
		MethodUsed:       r.MethodUsed,
		Confidence:       r.Confidence,
		FromCache:        r.FromCache,
		ProcessingTimeMs: r.ProcessingTimeMs,
	}
}
