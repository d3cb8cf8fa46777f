package server

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the env-driven runtime configuration. A .env file is
// honored when present; real environment variables win.
type Config struct {
	Addr         string
	DBPath       string
	Seed         string
	LoreURL      string
	LoreDisabled bool
	LogSinks     []string
	LogJSONPath  string
}

func LoadConfig() Config {
	godotenv.Load()

	cfg := Config{
		Addr:         envOr("RPG_ADDR", ":8080"),
		DBPath:       os.Getenv("RPG_DB_PATH"),
		Seed:         os.Getenv("RPG_SEED"),
		LoreURL:      os.Getenv("RPG_LORE_URL"),
		LoreDisabled: envBool("RPG_LORE_DISABLED"),
		LogJSONPath:  os.Getenv("RPG_LOG_JSON_PATH"),
	}
	if sinks := os.Getenv("RPG_LOG_SINKS"); sinks != "" {
		for _, name := range strings.Split(sinks, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cfg.LogSinks = append(cfg.LogSinks, trimmed)
			}
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
