package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Keys      APIKeys
	Ai        AIConfig
	Knowledge KnowledgeConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type APIKeys struct {
	GoogleGemini      string
	Jina              string
	IndexedEventTopic string // Knowledge indexed event topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "gemini" or "ollama"
	LLMModel          string
	EmbedCacheTTLMin  int // minutes, 0 disables the cache
}

type KnowledgeConfig struct {
	UploadDir     string
	VectorDBPath  string // empty means in-memory (tests, dry runs)
	ChunkSize     int
	EmbeddingDims int
	MemoryTopK    int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Keys: APIKeys{
			GoogleGemini:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:              getEnv("JINA_API_KEY", ""),
			IndexedEventTopic: getEnv("KNOWLEDGE_INDEXED_TOPIC_NAME", "KNOWLEDGE_INDEXED"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.0-flash"),
			EmbedCacheTTLMin:  getEnvAsInt("EMBED_CACHE_TTL_MINUTES", 30),
		},
		Knowledge: KnowledgeConfig{
			UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
			VectorDBPath:  getEnv("VECTOR_DB_PATH", "./vectordb"),
			ChunkSize:     getEnvAsInt("KNOWLEDGE_CHUNK_SIZE", 1000),
			EmbeddingDims: getEnvAsInt("EMBEDDING_DIMS", 768),
			MemoryTopK:    getEnvAsInt("MEMORY_TOP_K", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
