package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage driver names.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Completion provider names.
const (
	ProviderHuggingFace = "huggingface"
	ProviderTinyLlama   = "tinyllama"
)

// Config aggregates the service configuration.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Storage StorageConfig
	CORS    CORSConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// AIConfig describes the completion collaborator.
type AIConfig struct {
	Provider     string
	HFURL        string
	HFAPIKey     string
	TinyLlamaURL string
	Timeout      time.Duration
	HistoryLimit int
}

// StorageConfig describes where documents live.
type StorageConfig struct {
	Driver     string
	ChatPath   string
	UserPath   string
	SQLitePath string
}

// CORSConfig describes the allowed frontend origin.
type CORSConfig struct {
	Origin string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		AI:      ai,
		Storage: storage,
		CORS:    CORSConfig{Origin: getEnvOrDefault("CORS_ORIGIN", "http://localhost:3000")},
	}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":5000" or "127.0.0.1:5000" directly.
		return ServerConfig{Addr: port}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func loadAIConfig() (AIConfig, error) {
	timeoutSeconds := 60
	if override, err := parseOptionalIntEnv("AI_TIMEOUT"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AIConfig{}, fmt.Errorf("AI_TIMEOUT must be at least 1 second")
		}
		timeoutSeconds = *override
	}

	historyLimit := 5
	if override, err := parseOptionalIntEnv("CHAT_HISTORY_LIMIT"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			historyLimit = 1
		} else {
			historyLimit = *override
		}
	}

	cfg := AIConfig{
		Provider:     strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderTinyLlama)),
		HFURL:        strings.TrimSpace(os.Getenv("HF_API_URL")),
		HFAPIKey:     strings.TrimSpace(os.Getenv("HF_API_KEY")),
		TinyLlamaURL: getEnvOrDefault("TINYLLAMA_API_URL", "http://localhost:8000/tinyllama-generate"),
		Timeout:      time.Duration(timeoutSeconds) * time.Second,
		HistoryLimit: historyLimit,
	}

	switch cfg.Provider {
	case ProviderTinyLlama:
	case ProviderHuggingFace:
		if cfg.HFURL == "" {
			return AIConfig{}, fmt.Errorf("HF_API_URL is required when AI_PROVIDER=%s", ProviderHuggingFace)
		}
	default:
		return AIConfig{}, fmt.Errorf("unknown AI_PROVIDER value: %q", cfg.Provider)
	}

	return cfg, nil
}

func loadStorageConfig() (StorageConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverJSON))
	if driver != DriverJSON && driver != DriverSQLite {
		return StorageConfig{}, fmt.Errorf("unknown STORE_DRIVER value: %q", driver)
	}

	dataDir := getEnvOrDefault("DATA_DIR", "data")

	return StorageConfig{
		Driver:     driver,
		ChatPath:   getEnvOrDefault("CHAT_DB_FILE", filepath.Join(dataDir, "historicalchats.json")),
		UserPath:   getEnvOrDefault("USER_DB_FILE", filepath.Join(dataDir, "users.json")),
		SQLitePath: getEnvOrDefault("SQLITE_PATH", filepath.Join(dataDir, "lazycare.db")),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
