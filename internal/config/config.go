package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	GenerationBaseURL string
	HistoryDBPath     string
	DownloadDir       string
	DailyLimit        int
	ServerAddr        string
	UpstreamOrigin    string
	CacheVersion      string
}

// Load loads configuration from environment variables, reading a .env file
// first if one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		GenerationBaseURL: getEnv("GENERATION_BASE_URL", "https://api.aivideo.dev/generate"),
		HistoryDBPath:     getEnv("HISTORY_DB_PATH", "./data/history.db"),
		DownloadDir:       getEnv("DOWNLOAD_DIR", "./downloads"),
		DailyLimit:        getEnvInt("DAILY_GENERATION_LIMIT", 0),
		ServerAddr:        getEnv("SERVER_ADDR", ":8080"),
		UpstreamOrigin:    getEnv("UPSTREAM_ORIGIN", "http://localhost:3000"),
		CacheVersion:      getEnv("CACHE_VERSION", "v2"),
	}
}

// getEnv gets an environment variable or returns the default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns the default value.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
