package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-studyaid-be/internal/config"
	"ai-studyaid-be/internal/controller"
	"ai-studyaid-be/internal/pkg/logger"
	"ai-studyaid-be/internal/repository/implementation"
	"ai-studyaid-be/internal/service"
	"ai-studyaid-be/pkg/blob"
	"ai-studyaid-be/pkg/generation/cache"
	"ai-studyaid-be/pkg/generation/params"
	"ai-studyaid-be/pkg/generation/pipeline"
	"ai-studyaid-be/pkg/generation/ratelimit"
	"ai-studyaid-be/pkg/llm/factory"

	pktNats "ai-studyaid-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	GenerationController controller.IGenerationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Infrastructure handles main.go shuts down
	PubSub  *gochannel.GoChannel
	NatsPub *pktNats.Publisher
	Logger  logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Repositories
	sessionRepo := implementation.NewStudySessionRepository(db)
	evidenceRepo := implementation.NewEvidenceRecordRepository(db)
	chatRepo := implementation.NewChatMessageRepository(db)

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is optional: a failed connect degrades to request-path only.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 4. Provider chain, ordered by preference. A provider without its
	// credentials or endpoint is simply not in the chain.
	var remotes []pipeline.Strategy
	if cfg.Keys.GoogleGemini != "" {
		provider, err := factory.NewLLMProvider("gemini", cfg.Ai.GeminiModel, "", cfg.Keys.GoogleGemini)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize Gemini provider: %v", err)
		}
		remotes = append(remotes, pipeline.NewRemoteStrategy("gemini", provider, 0.9))
		log.Printf("[INFO] Provider enabled: GEMINI (%s)", cfg.Ai.GeminiModel)
	}
	if cfg.Keys.HuggingFace != "" {
		provider, err := factory.NewLLMProvider("huggingface", cfg.Ai.HuggingFaceModel, cfg.Ai.HuggingFaceURL, cfg.Keys.HuggingFace)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize HuggingFace provider: %v", err)
		}
		remotes = append(remotes, pipeline.NewRemoteStrategy("huggingface", provider, 0.8))
		log.Printf("[INFO] Provider enabled: HUGGINGFACE (%s)", cfg.Ai.HuggingFaceModel)
	}
	if cfg.Ai.OllamaBaseURL != "" {
		provider, err := factory.NewLLMProvider("ollama", cfg.Ai.OllamaModel, cfg.Ai.OllamaBaseURL, "")
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize Ollama provider: %v", err)
		}
		remotes = append(remotes, pipeline.NewRemoteStrategy("ollama", provider, 0.7))
		log.Printf("[INFO] Provider enabled: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	// 5. Pipeline components
	normalizer := params.NewNormalizer(params.Bounds{
		MinTokens:          cfg.Pipeline.MinTokens,
		MaxTokens:          cfg.Pipeline.MaxTokens,
		DefaultTokens:      cfg.Pipeline.DefaultTokens,
		DefaultTemperature: params.DefaultBounds().DefaultTemperature,
		DefaultTopP:        params.DefaultBounds().DefaultTopP,
	})
	limiter := ratelimit.NewLimiter(cfg.Pipeline.RateLimit, time.Duration(cfg.Pipeline.RateWindowSecs)*time.Second)
	responseCache := cache.NewResponseCache(time.Duration(cfg.Pipeline.CacheTTLSecs)*time.Second, cfg.Pipeline.CacheCapacity)

	assembler := service.NewContextAssembler(sessionRepo, evidenceRepo, chatRepo, sysLogger)
	imageResolver := blob.NewResolver(cfg.App.BlobBaseURL)

	orchestrator := pipeline.NewOrchestrator(
		remotes,
		normalizer,
		limiter,
		responseCache,
		sysLogger,
		pipeline.WithContextSource(assembler),
		pipeline.WithImageResolver(imageResolver),
		pipeline.WithAttemptTimeout(time.Duration(cfg.Pipeline.AttemptTimeoutMs)*time.Millisecond),
	)

	// 6. Services
	generationService := service.NewGenerationService(
		orchestrator,
		pubSub,
		cfg.Keys.PersistTopic,
		natsPub,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.PersistTopic,
		evidenceRepo,
		sysLogger,
	)

	// 7. Controllers
	generationController := controller.NewGenerationController(generationService)

	return &Container{
		GenerationController: generationController,
		ConsumerService:      consumerService,
		PubSub:               pubSub,
		NatsPub:              natsPub,
		Logger:               sysLogger,
	}
}

// StartConsumers launches background subscribers; call once after construction.
func (c *Container) StartConsumers(ctx context.Context) error {
	return c.ConsumerService.Consume(ctx)
}
