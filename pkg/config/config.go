package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds runtime configuration for the research agent system.
type Config struct {
	ModelType string // "deepseek" or "google"

	DeepSeekAPIKey      string
	DeepSeekBaseURL     string
	DeepSeekModelID     string
	DeepSeekMaxTokens   int
	DeepSeekTemperature float64

	GoogleAPIKey    string
	ResearcherModel string
	AnalystModel    string
	WriterModel     string

	TavilyAPIKey         string
	SerpAPIKey           string
	GoogleSearchAPIKey   string
	GoogleSearchEngineID string

	MaxResearchLoops int
	Language         string // "auto" enables detection from the query

	DatabaseURL    string
	Port           string
	EmbeddingModel string
	CollectionName string
	ChunkSize      int
	ChunkOverlap   int
}

func Load() *Config {
	return &Config{
		ModelType: getEnv("MODEL_TYPE", "deepseek"),

		DeepSeekAPIKey:      getEnv("DEEPSEEK_API_KEY", ""),
		DeepSeekBaseURL:     getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
		DeepSeekModelID:     getEnv("DEEPSEEK_MODEL_ID", "deepseek-chat"),
		DeepSeekMaxTokens:   getEnvAsInt("DEEPSEEK_MAX_TOKENS", 4096),
		DeepSeekTemperature: getEnvAsFloat("DEEPSEEK_TEMPERATURE", 0.7),

		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", ""),
		ResearcherModel: getEnv("RESEARCHER_MODEL", "gemini-2.0-flash"),
		AnalystModel:    getEnv("ANALYST_MODEL", "gemini-2.0-flash"),
		WriterModel:     getEnv("WRITER_MODEL", "gemini-2.5-pro"),

		TavilyAPIKey:         getEnv("TAVILY_API_KEY", ""),
		SerpAPIKey:           getEnv("SERPAPI_API_KEY", ""),
		GoogleSearchAPIKey:   getEnv("GOOGLE_SEARCH_API_KEY", ""),
		GoogleSearchEngineID: getEnv("GOOGLE_SEARCH_ENGINE_ID", ""),

		MaxResearchLoops: getEnvAsInt("MAX_RESEARCH_LOOPS", 2),
		Language:         getEnv("RESEARCH_LANGUAGE", "auto"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Port:           getEnv("PORT", "8000"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "gemini-embedding-001"),
		CollectionName: getEnv("COLLECTION_NAME", "research_memory"),
		ChunkSize:      getEnvAsInt("CHUNK_SIZE", 1000),
		ChunkOverlap:   getEnvAsInt("CHUNK_OVERLAP", 200),
	}
}

// Validate reports configuration problems that would prevent a session from
// ever starting. Called before any session is created.
func (c *Config) Validate() error {
	switch c.ModelType {
	case "deepseek":
		if c.DeepSeekAPIKey == "" {
			return fmt.Errorf("MODEL_TYPE is deepseek but DEEPSEEK_API_KEY is not set")
		}
	default:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("MODEL_TYPE is %s but GOOGLE_API_KEY is not set", c.ModelType)
		}
	}
	if c.MaxResearchLoops < 1 {
		return fmt.Errorf("MAX_RESEARCH_LOOPS must be at least 1, got %d", c.MaxResearchLoops)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
