package bootstrap

import (
	"context"
	"log"
	"os"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/config"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/controller"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/pkg/logger"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/memory"
	redisrepo "github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/redis"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/unitofwork"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/service"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/prompt"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/embedding"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/embedding/jina"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm/factory"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"

	pktNats "github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	DocumentController  controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(factory.Params{
		Provider:       cfg.Ai.LLMProvider,
		Model:          cfg.Ai.LLMModel,
		OllamaBaseURL:  cfg.Ai.OllamaBaseURL,
		GeminiAPIKey:   cfg.Keys.GoogleGemini,
		HuggingFaceKey: cfg.Keys.HuggingFace,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 2.5 Infrastructure (Moved up for dependency injection)
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Session store. Redis keeps conversations across restarts, memory
	// is the default single-process store.
	var sessions store.SessionStore
	if cfg.Assistant.SessionStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		// Session chatter goes to its own file to keep the main log clean
		sessionLogger := logger.NewIsolatedLogger("logs/sessions.log")
		sessions = redisrepo.NewSessionRepository(rdb, sessionLogger)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessions = memory.NewSessionRepository()
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	promptRegistry := prompt.NewRegistry(
		cfg.Assistant.PromptDir,
		cfg.Assistant.AcceleratorName,
		log.New(os.Stdout, "", log.LstdFlags),
	)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedDocumentTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedDocumentTopic,
		uowFactory,
		embeddingProvider, // Injected
		natsPub,
	)

	documentService := service.NewDocumentService(uowFactory, publisherService)

	assistantService := service.NewAssistantService(
		uowFactory,
		embeddingProvider, // Injected
		llmProvider,       // Injected
		sessions,          // Injected
		promptRegistry,
		natsPub,
		sysLogger,
	)

	// 5. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		DocumentController:  controller.NewDocumentController(documentService),

		ConsumerService: consumerService,
	}
}
