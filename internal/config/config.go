package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Completion provider
	LLMBackend     string // "openrouter", "vertex" or "mock"
	OpenRouterKey  string
	OpenRouterURL  string
	SiteURL        string
	SiteName       string
	ModelName      string
	RequestTimeout time.Duration

	// Vertex backend
	GCPProjectID string
	GCPLocation  string
	VertexModel  string

	// Storage
	StorageBackend string // "memory" or "firestore"
	RedisURL       string // optional transcript store
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

// Load reads all env vars once at process start and builds the config.
func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "5001"),

		LLMBackend:     getEnv("AFTERHACK_LLM_BACKEND", "openrouter"),
		OpenRouterKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterURL:  getEnv("OPENROUTER_API_URL", "https://openrouter.ai/api/v1/chat/completions"),
		SiteURL:        getEnv("AFTERHACK_SITE_URL", "http://localhost:3000"),
		SiteName:       getEnv("AFTERHACK_SITE_NAME", "AfterHack"),
		ModelName:      getEnv("AFTERHACK_MODEL_NAME", "google/gemini-2.0-flash-001"),
		RequestTimeout: getDurationEnv("AFTERHACK_REQUEST_TIMEOUT", 30*time.Second),

		GCPProjectID: getEnv("AFTERHACK_GCP_PROJECT", ""),
		GCPLocation:  getEnv("AFTERHACK_GCP_LOCATION", "us-central1"),
		VertexModel:  getEnv("AFTERHACK_VERTEX_MODEL", "gemini-2.5-flash"),

		StorageBackend: getEnv("AFTERHACK_STORAGE_BACKEND", "memory"),
		RedisURL:       getEnv("AFTERHACK_REDIS_URL", ""),
	}

	switch cfg.LLMBackend {
	case "openrouter":
		if cfg.OpenRouterKey == "" {
			log.Fatal("OPENROUTER_API_KEY must be set for the openrouter backend")
		}
	case "vertex":
		if cfg.GCPProjectID == "" {
			log.Fatal("AFTERHACK_GCP_PROJECT must be set for the vertex backend")
		}
	}

	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("AFTERHACK_GCP_PROJECT is required for the firestore storage backend")
	}

	return cfg
}
