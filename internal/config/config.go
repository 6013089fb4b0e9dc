package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DBPath             string
	DataDir            string
	LogLevel           string
	SuggestionLimit    int
	DistractorCount    int
	DistractorAttempts int
	AdminToken         string
	ContentAPIBase     string
	ContentToken       string
	ContentRepo        string
	ContentBranch      string
	ContentWorkerCount int
	ContentQueueSize   int
	CORSOrigins        []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:herbquiz.db"),
		DataDir:            envOr("DATA_DIR", "data"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		SuggestionLimit:    envIntOr("SUGGESTION_LIMIT", 8),
		DistractorCount:    envIntOr("DISTRACTOR_COUNT", 3),
		DistractorAttempts: envIntOr("DISTRACTOR_ATTEMPTS", 100),
		AdminToken:         envOr("ADMIN_TOKEN", ""),
		ContentAPIBase:     envOr("CONTENT_API_BASE", "https://api.github.com/repos"),
		ContentToken:       envOr("CONTENT_TOKEN", ""),
		ContentRepo:        envOr("CONTENT_REPO", ""),
		ContentBranch:      envOr("CONTENT_BRANCH", "main"),
		ContentWorkerCount: envIntOr("CONTENT_WORKER_COUNT", 1),
		ContentQueueSize:   envIntOr("CONTENT_QUEUE_SIZE", 16),
		CORSOrigins:        envListOr("CORS_ORIGINS", []string{"*"}),
	}
}

// Validate checks the configuration for values that would prevent the server
// from operating, collecting every problem into a single error.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.DataDir == "" {
		problems = append(problems, "DATA_DIR cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL is invalid: %q", c.LogLevel))
	}
	if c.SuggestionLimit <= 0 {
		problems = append(problems, "SUGGESTION_LIMIT must be positive")
	}
	if c.DistractorCount <= 0 {
		problems = append(problems, "DISTRACTOR_COUNT must be positive")
	}
	if c.DistractorAttempts <= 0 {
		problems = append(problems, "DISTRACTOR_ATTEMPTS must be positive")
	}
	if c.ContentWorkerCount <= 0 {
		problems = append(problems, "CONTENT_WORKER_COUNT must be positive")
	}
	if c.ContentQueueSize <= 0 {
		problems = append(problems, "CONTENT_QUEUE_SIZE must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ContentEnabled reports whether the remote content-management boundary is
// configured. When false the admin content endpoints are not mounted.
func (c Config) ContentEnabled() bool {
	return c.ContentToken != "" && c.ContentRepo != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
