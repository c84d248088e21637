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
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	BlobBaseURL        string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
	PersistTopic string // Evidence persistence topic
}

type AIConfig struct {
	GeminiModel      string
	HuggingFaceModel string
	HuggingFaceURL   string
	OllamaBaseURL    string
	OllamaModel      string
}

type PipelineConfig struct {
	MinTokens        int
	MaxTokens        int
	DefaultTokens    int
	RateLimit        int // requests per provider per window
	RateWindowSecs   int
	CacheTTLSecs     int
	CacheCapacity    int
	AttemptTimeoutMs int
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			BlobBaseURL:        getEnv("BLOB_BASE_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			PersistTopic: getEnv("PERSIST_EVIDENCE_TOPIC_NAME", "PERSIST_EVIDENCE"),
		},
		Ai: AIConfig{
			GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			HuggingFaceModel: getEnv("HUGGINGFACE_MODEL", "meta-llama/Llama-3.1-8B-Instruct"),
			HuggingFaceURL:   getEnv("HUGGINGFACE_BASE_URL", ""),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:      getEnv("OLLAMA_MODEL", "llama3"),
		},
		Pipeline: PipelineConfig{
			MinTokens:        getEnvAsInt("PIPELINE_MIN_TOKENS", 64),
			MaxTokens:        getEnvAsInt("PIPELINE_MAX_TOKENS", 8000),
			DefaultTokens:    getEnvAsInt("PIPELINE_DEFAULT_TOKENS", 1024),
			RateLimit:        getEnvAsInt("PIPELINE_RATE_LIMIT", 60),
			RateWindowSecs:   getEnvAsInt("PIPELINE_RATE_WINDOW_SECS", 60),
			CacheTTLSecs:     getEnvAsInt("PIPELINE_CACHE_TTL_SECS", 3600),
			CacheCapacity:    getEnvAsInt("PIPELINE_CACHE_CAPACITY", 100),
			AttemptTimeoutMs: getEnvAsInt("PIPELINE_ATTEMPT_TIMEOUT_MS", 30000),
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
