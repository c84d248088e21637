package pipeline

import (
	"context"
	"fmt"
	"strings"

	"ai-studyaid-be/pkg/generation"
	"ai-studyaid-be/pkg/generation/heuristic"
	"ai-studyaid-be/pkg/llm"
)

// Prepared is the fully-resolved request a strategy attempts: the built
// prompt, the bounded raw input, the assembled context and any resolved image.
type Prepared struct {
	Kind        generation.OperationKind
	Prompt      string
	RawText     string
	ContextText string
	Params      generation.Parameters
	Image       *llm.ImagePart
}

// Strategy is one step of the ordered fallback chain. Implementations adapt a
// provider (or the local extractor) to the common ProviderResult shape.
type Strategy interface {
	Tag() string
	Remote() bool
	SupportsVision() bool
	Attempt(ctx context.Context, req *Prepared) (*generation.ProviderResult, error)
}

// --- Remote provider strategy ---

type remoteStrategy struct {
	tag        string
	provider   llm.LLMProvider
	vision     bool
	confidence float64
}

// NewRemoteStrategy wraps an LLM provider as one step of the chain.
func NewRemoteStrategy(tag string, provider llm.LLMProvider, confidence float64) Strategy {
	vision := false
	if vp, ok := provider.(llm.VisionProvider); ok {
		vision = vp.SupportsVision()
	}
	return &remoteStrategy{
		tag:        tag,
		provider:   provider,
		vision:     vision,
		confidence: confidence,
	}
}

func (s *remoteStrategy) Tag() string          { return s.tag }
func (s *remoteStrategy) Remote() bool         { return true }
func (s *remoteStrategy) SupportsVision() bool { return s.vision }

// Confidence reported for results this strategy produces.
func (s *remoteStrategy) Confidence() float64 { return s.confidence }

func (s *remoteStrategy) Attempt(ctx context.Context, req *Prepared) (*generation.ProviderResult, error) {
	opts := []llm.Option{
		llm.WithTemperature(req.Params.Temperature),
		llm.WithTopP(req.Params.TopP),
		llm.WithMaxTokens(req.Params.MaxTokens),
	}
	if req.Image != nil {
		if !s.vision {
			return nil, fmt.Errorf("strategy %s cannot process images", s.tag)
		}
		opts = append(opts, llm.WithImage(req.Image.MimeType, req.Image.Data))
	}

	text, err := s.provider.Generate(ctx, req.Prompt, opts...)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty response from %s", s.tag)
	}

	return &generation.ProviderResult{
		Success: true,
		Text:    text,
		Raw:     text,
	}, nil
}

// --- Local heuristic strategy ---

type localStrategy struct {
	extractor *heuristic.Extractor
}

// NewLocalStrategy wraps the offline extractor as the guaranteed terminal
// step. It performs no network I/O and never returns an error.
func NewLocalStrategy(extractor *heuristic.Extractor) Strategy {
	return &localStrategy{extractor: extractor}
}

func (s *localStrategy) Tag() string          { return heuristic.MethodTag }
func (s *localStrategy) Remote() bool         { return false }
func (s *localStrategy) SupportsVision() bool { return false }

func (s *localStrategy) Attempt(_ context.Context, req *Prepared) (*generation.ProviderResult, error) {
	source := req.RawText
	if strings.TrimSpace(source) == "" {
		source = req.ContextText
	}

	result := &generation.ProviderResult{Success: true}
	switch req.Kind {
	case generation.OpOCR:
		artifact := s.extractor.Evidence(source)
		result.Artifact = artifact
		result.Text = joinEvidence(artifact)
	case generation.OpSummary:
		result.Text = s.extractor.Summarize(source)
	case generation.OpQuiz:
		result.Artifact = s.extractor.Quiz(source)
	case generation.OpMindmap:
		result.Artifact = s.extractor.Mindmap(source)
	case generation.OpRAGChat:
		result.Text = s.extractor.Answer(req.RawText, req.ContextText)
	default:
		result.Text = s.extractor.Summarize(source)
	}
	return result, nil
}

func joinEvidence(artifact *generation.Artifact) string {
	parts := make([]string, 0, len(artifact.Evidence))
	for _, ev := range artifact.Evidence {
		parts = append(parts, ev.Text)
	}
	return strings.Join(parts, "\n")
}
