package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Vector   VectorConfig
	Pipeline PipelineConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	RagLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider    string // "ollama" or "openai"
	OllamaBaseURL        string
	OllamaEmbeddingModel string
	OpenAIBaseURL        string
	OpenAIAPIKey         string
	OpenAIEmbeddingModel string
	LLMProvider          string // "ollama" or "huggingface"
	LLMModel             string
	HuggingFaceAPIKey    string
}

type VectorConfig struct {
	Backend          string // "qdrant", "pgvector" or "memory"
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
	Dimension        int
}

type PipelineConfig struct {
	TopK              int
	RerankTopM        int
	RerankEnabled     bool
	CallTimeoutSec    int
	AnswerCacheTTLSec int
}

type SessionConfig struct {
	Driver string // "redis" or "memory"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RagLogFilePath:     getEnv("RAG_LOG_FILE_PATH", "logs/llm_rag.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
			OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-ada-002"),
			LLMProvider:          getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:             getEnv("LLM_MODEL", "llama3"),
			HuggingFaceAPIKey:    getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Vector: VectorConfig{
			Backend:          getEnv("VECTOR_BACKEND", "qdrant"),
			QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			QdrantAPIKey:     getEnv("QDRANT_API_KEY", ""),
			QdrantCollection: getEnv("QDRANT_COLLECTION", "sf_events"),
			Dimension:        getEnvAsInt("VECTOR_DIMENSION", 1536),
		},
		Pipeline: PipelineConfig{
			TopK:              getEnvAsInt("PIPELINE_TOP_K", 10),
			RerankTopM:        getEnvAsInt("PIPELINE_RERANK_TOP_M", 5),
			RerankEnabled:     getEnvAsBool("PIPELINE_RERANK_ENABLED", true),
			CallTimeoutSec:    getEnvAsInt("PIPELINE_CALL_TIMEOUT_SEC", 60),
			AnswerCacheTTLSec: getEnvAsInt("PIPELINE_ANSWER_CACHE_TTL_SEC", 600),
		},
		Session: SessionConfig{
			Driver: getEnv("SESSION_DRIVER", "memory"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
