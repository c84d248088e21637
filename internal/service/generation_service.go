package service

import (
	"context"
	"encoding/json"

	"ai-studyaid-be/internal/dto"
	"ai-studyaid-be/internal/pkg/logger"
	pktNats "ai-studyaid-be/pkg/nats"

	"ai-studyaid-be/pkg/events"
	"ai-studyaid-be/pkg/generation"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IGenerationService interface {
	OCR(ctx context.Context, userId uuid.UUID, req *dto.OCRRequest) (*dto.GenerationResultDTO, error)
	Summarize(ctx context.Context, userId uuid.UUID, req *dto.SummarizeRequest) (*dto.GenerationResultDTO, error)
	QuizGen(ctx context.Context, userId uuid.UUID, req *dto.QuizGenRequest) (*dto.GenerationResultDTO, error)
	MindmapGen(ctx context.Context, userId uuid.UUID, req *dto.MindmapGenRequest) (*dto.GenerationResultDTO, error)
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.GenerationResultDTO, error)
	StrategyTags() []string
}

// Executor is the narrow surface the service needs from the pipeline.
type Executor interface {
	Execute(ctx context.Context, req *generation.Request) (*generation.Result, error)
	Tags() []string
}

type generationService struct {
	executor     Executor
	pubSub       *gochannel.GoChannel
	persistTopic string
	natsPub      *pktNats.Publisher
	logger       logger.ILogger
}

func NewGenerationService(
	executor Executor,
	pubSub *gochannel.GoChannel,
	persistTopic string,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		executor:     executor,
		pubSub:       pubSub,
		persistTopic: persistTopic,
		natsPub:      natsPub,
		logger:       log,
	}
}

func (s *generationService) OCR(ctx context.Context, userId uuid.UUID, req *dto.OCRRequest) (*dto.GenerationResultDTO, error) {
	result, err := s.run(ctx, &generation.Request{
		Kind:        generation.OpOCR,
		Text:        req.Hint,
		ImageRef:    req.ImageRef,
		Params:      toParams(req.Params),
		ContextRefs: toRefs(req.Context, userId),
	})
	if err != nil {
		return nil, err
	}

	if !result.FromCache && result.Artifact != nil && req.Context.ImageId != uuid.Nil {
		s.publishEvidence(userId, req.Context.ImageId, result.Artifact)
	}
	return dto.NewGenerationResultDTO(result), nil
}

func (s *generationService) Summarize(ctx context.Context, userId uuid.UUID, req *dto.SummarizeRequest) (*dto.GenerationResultDTO, error) {
	result, err := s.run(ctx, &generation.Request{
		Kind:        generation.OpSummary,
		Text:        req.Text,
		Params:      toParams(req.Params),
		ContextRefs: toRefs(req.Context, userId),
	})
	if err != nil {
		return nil, err
	}
	return dto.NewGenerationResultDTO(result), nil
}

func (s *generationService) QuizGen(ctx context.Context, userId uuid.UUID, req *dto.QuizGenRequest) (*dto.GenerationResultDTO, error) {
	result, err := s.run(ctx, &generation.Request{
		Kind:        generation.OpQuiz,
		Text:        req.Text,
		Params:      toParams(req.Params),
		ContextRefs: toRefs(req.Context, userId),
	})
	if err != nil {
		return nil, err
	}
	return dto.NewGenerationResultDTO(result), nil
}

func (s *generationService) MindmapGen(ctx context.Context, userId uuid.UUID, req *dto.MindmapGenRequest) (*dto.GenerationResultDTO, error) {
	result, err := s.run(ctx, &generation.Request{
		Kind:        generation.OpMindmap,
		Text:        req.Text,
		Params:      toParams(req.Params),
		ContextRefs: toRefs(req.Context, userId),
	})
	if err != nil {
		return nil, err
	}
	return dto.NewGenerationResultDTO(result), nil
}

func (s *generationService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.GenerationResultDTO, error) {
	result, err := s.run(ctx, &generation.Request{
		Kind:        generation.OpRAGChat,
		Text:        req.Query,
		Params:      toParams(req.Params),
		ContextRefs: toRefs(req.Context, userId),
	})
	if err != nil {
		return nil, err
	}
	return dto.NewGenerationResultDTO(result), nil
}

func (s *generationService) StrategyTags() []string {
	return s.executor.Tags()
}

func (s *generationService) run(ctx context.Context, req *generation.Request) (*generation.Result, error) {
	result, err := s.executor.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	s.announce(ctx, req.Kind, result)
	return result, nil
}

// announce reports a completed generation on the event bus. Best effort: a
// down bus never affects the request path.
func (s *generationService) announce(ctx context.Context, kind generation.OperationKind, result *generation.Result) {
	if s.natsPub == nil {
		return
	}
	event := events.NewGenerationCompleted(string(kind), result.MethodUsed, result.FromCache, result.ProcessingTimeMs)
	if err := s.natsPub.Publish(ctx, event); err != nil {
		s.logger.Warn("GENERATION_SERVICE", "failed to publish completion event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// PersistEvidenceMessage is the payload carried on the persistence topic.
type PersistEvidenceMessage struct {
	UserId   uuid.UUID                  `json:"user_id"`
	ImageId  uuid.UUID                  `json:"image_id"`
	Evidence []generation.EvidenceChunk `json:"evidence"`
}

func (s *generationService) publishEvidence(userId, imageId uuid.UUID, artifact *generation.Artifact) {
	if s.pubSub == nil || len(artifact.Evidence) == 0 {
		return
	}

	payload, err := json.Marshal(PersistEvidenceMessage{
		UserId:   userId,
		ImageId:  imageId,
		Evidence: artifact.Evidence,
	})
	if err != nil {
		s.logger.Error("GENERATION_SERVICE", "failed to marshal evidence payload", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err := s.pubSub.Publish(s.persistTopic, msg); err != nil {
		s.logger.Error("GENERATION_SERVICE", "failed to publish evidence message", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func toParams(p dto.GenerationParamsDTO) generation.Parameters {
	return generation.Parameters{
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		TopP:        p.TopP,
	}
}

func toRefs(c dto.ContextRefsDTO, userId uuid.UUID) generation.ContextRefs {
	return generation.ContextRefs{
		SessionId: c.SessionId,
		ImageId:   c.ImageId,
		UserId:    userId,
		Limit:     c.Limit,
	}
}
