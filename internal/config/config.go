package config

import (
	"log"
	"os"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

type Config struct {
	Mode Mode

	Port string

	ModelName string
	// APIKeyEnv names the environment variable holding the provider key.
	// The key itself is read when the gateway client is built.
	APIKeyEnv string

	StorageBackend string // "memory" or "sqlite"
	SQLitePath     string

	LogDir       string
	LogQueueSize int

	ManifestPath string // optional ministerial manifest YAML
	UseMockLLM   bool   // true = use mock even in cloud mode
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// Load reads all env vars and builds the config.
func Load() *Config {
	modeStr := getEnv("AETHERO_MODE", "local")
	var mode Mode
	switch modeStr {
	case "cloud":
		mode = ModeCloud
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("AETHERO_PORT", "8080"),

		ModelName: getEnv("AETHERO_MODEL_NAME", "gemini-2.5-flash"),
		APIKeyEnv: getEnv("AETHERO_API_KEY_ENV", "GEMINI_API_KEY"),

		StorageBackend: getEnv("AETHERO_STORAGE_BACKEND", "memory"),
		SQLitePath:     getEnv("AETHERO_SQLITE_PATH", "aethero.db"),

		LogDir:       getEnv("AETHERO_LOG_DIR", "logs/MemoryLogs"),
		LogQueueSize: getIntEnv("AETHERO_LOG_QUEUE_SIZE", 256),

		ManifestPath: getEnv("AETHERO_MANIFEST_PATH", ""),
		UseMockLLM:   getBoolEnv("AETHERO_USE_MOCK_LLM", mode == ModeLocal),
	}

	if cfg.Mode == ModeCloud && !cfg.UseMockLLM && os.Getenv(cfg.APIKeyEnv) == "" {
		log.Fatalf("%s must be set in cloud mode", cfg.APIKeyEnv)
	}

	return cfg
}
