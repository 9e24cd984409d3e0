package bootstrap

import (
	"context"
	"log"
	"time"

	"travel-assistant-be/internal/config"
	"travel-assistant-be/internal/controller"
	"travel-assistant-be/internal/pkg/logger"
	"travel-assistant-be/internal/repository/contract"
	"travel-assistant-be/internal/repository/implementation"
	"travel-assistant-be/internal/repository/memory"
	"travel-assistant-be/internal/service"
	"travel-assistant-be/pkg/embedding"
	"travel-assistant-be/pkg/llm/factory"
	"travel-assistant-be/pkg/rag/executor"
	"travel-assistant-be/pkg/store"
	"travel-assistant-be/pkg/vectorindex"
	memoryindex "travel-assistant-be/pkg/vectorindex/memory"
	"travel-assistant-be/pkg/vectorindex/pgvector"
	"travel-assistant-be/pkg/vectorindex/qdrant"

	pktNats "travel-assistant-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	FeedbackController controller.IFeedbackController

	// Infrastructure handles exposed for shutdown
	VectorIndex vectorindex.Index
	NatsPub     *pktNats.Publisher
	SysLogger   logger.ILogger
}

// NewContainer wires the whole application. db may be nil, in which
// case feedback falls back to in-memory storage and the pgvector
// backend is unavailable.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := service.InitRagLogger(cfg.App.RagLogFilePath)

	// Embedding Provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Ai.OpenAIAPIKey,
			cfg.Ai.OpenAIBaseURL,
			cfg.Ai.OpenAIEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.OpenAIEmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	}

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Vector Index
	var index vectorindex.Index
	switch cfg.Vector.Backend {
	case "pgvector":
		if db == nil {
			log.Fatalf("[FATAL] VECTOR_BACKEND=pgvector requires DB_CONNECTION_STRING")
		}
		index = pgvector.New(db, cfg.Vector.Dimension)
		log.Printf("[INFO] Using Vector Backend: PGVECTOR (dim=%d)", cfg.Vector.Dimension)
	case "memory":
		index = memoryindex.New(cfg.Vector.Dimension)
		log.Printf("[INFO] Using Vector Backend: MEMORY (dim=%d)", cfg.Vector.Dimension)
	default:
		qdrantIndex, err := qdrant.New(qdrant.Config{
			URL:            cfg.Vector.QdrantURL,
			CollectionName: cfg.Vector.QdrantCollection,
			APIKey:         cfg.Vector.QdrantAPIKey,
			Dimension:      cfg.Vector.Dimension,
		})
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize Qdrant client: %v", err)
		}
		index = qdrantIndex
		log.Printf("[INFO] Using Vector Backend: QDRANT (%s/%s)", cfg.Vector.QdrantURL, cfg.Vector.QdrantCollection)
	}

	// Session Store
	var sessionStore store.SessionStore
	if cfg.Session.Driver == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory sessions", err)
			sessionStore = store.NewMemoryStore(0)
		} else {
			sessionStore = store.NewRedisStore(rdb, 24*time.Hour)
			log.Printf("[INFO] Using Session Store: REDIS")
		}
	} else {
		sessionStore = store.NewMemoryStore(0)
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Feedback storage
	var feedbackRepo contract.FeedbackRepository
	if db != nil {
		feedbackRepo = implementation.NewFeedbackRepository(db)
	} else {
		log.Printf("[WARN] No database configured, feedback is stored in memory only")
		feedbackRepo = memory.NewFeedbackRepository()
	}

	// Pipeline
	pipeline := executor.NewPipeline(llmProvider, embeddingProvider, index, ragLogger, executor.Config{
		TopK:          cfg.Pipeline.TopK,
		RerankTopM:    cfg.Pipeline.RerankTopM,
		RerankEnabled: cfg.Pipeline.RerankEnabled,
		CallTimeout:   time.Duration(cfg.Pipeline.CallTimeoutSec) * time.Second,
	})

	// Services
	chatService := service.NewChatService(pipeline, sessionStore, ragLogger, time.Duration(cfg.Pipeline.AnswerCacheTTLSec)*time.Second)
	feedbackService := service.NewFeedbackService(feedbackRepo, natsPub, sysLogger)

	return &Container{
		ChatController:     controller.NewChatController(chatService),
		FeedbackController: controller.NewFeedbackController(feedbackService),

		VectorIndex: index,
		NatsPub:     natsPub,
		SysLogger:   sysLogger,
	}
}
