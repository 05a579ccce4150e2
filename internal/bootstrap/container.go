package bootstrap

import (
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"bejo-chatbot-be/internal/config"
	"bejo-chatbot-be/internal/controller"
	"bejo-chatbot-be/internal/pkg/logger"
	"bejo-chatbot-be/internal/service"
	"bejo-chatbot-be/pkg/agent"
	"bejo-chatbot-be/pkg/embedding"
	"bejo-chatbot-be/pkg/embedding/jina"
	"bejo-chatbot-be/pkg/knowledge"
	"bejo-chatbot-be/pkg/knowledge/converter"
	"bejo-chatbot-be/pkg/llm/factory"
	"bejo-chatbot-be/pkg/memory"
	"bejo-chatbot-be/pkg/vectorstore"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	KnowledgeController controller.IKnowledgeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
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
	if cfg.Ai.EmbedCacheTTLMin > 0 {
		embeddingProvider = embedding.NewCachedProvider(
			embeddingProvider,
			time.Duration(cfg.Ai.EmbedCacheTTLMin)*time.Minute,
		)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Storage
	vectorClient, err := vectorstore.NewClient(cfg.Knowledge.VectorDBPath, cfg.Knowledge.EmbeddingDims)
	if err != nil {
		log.Fatalf("[FATAL] Failed to open vector store: %v", err)
	}

	knowledgeStore := knowledge.NewStore(vectorClient, embeddingProvider, sysLogger)
	memoryService := memory.NewMemoryService(vectorClient, embeddingProvider, cfg.Knowledge.MemoryTopK, sysLogger)
	docConverter := converter.NewDocumentConverter()

	// 5. Pipelines
	chatPipeline := agent.NewPipeline(knowledgeStore, memoryService, llmProvider, sysLogger)
	ingestionPipeline := knowledge.NewIngestionPipeline(
		knowledgeStore,
		docConverter,
		cfg.Knowledge.UploadDir,
		cfg.App.BaseURL,
		cfg.Knowledge.ChunkSize,
		sysLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.IndexedEventTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.IndexedEventTopic, sysLogger)

	chatbotService := service.NewChatbotService(chatPipeline, sysLogger)
	knowledgeService := service.NewKnowledgeService(ingestionPipeline, publisherService, sysLogger)

	// 7. Controllers
	return &Container{
		ChatController:      controller.NewChatController(chatbotService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService, sysLogger),

		ConsumerService: consumerService,

		Logger: sysLogger,
	}
}
