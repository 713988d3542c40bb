package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv overrides cfg with EVENTCREW_* environment variables. Values
// that fail to parse are ignored.
func LoadFromEnv(cfg *Config) {
	cfg.Server.Addr = getEnv("EVENTCREW_ADDR", cfg.Server.Addr)
	cfg.Server.RunTimeout = getEnvAsDuration("EVENTCREW_RUN_TIMEOUT", cfg.Server.RunTimeout)
	cfg.Server.ShutdownTimeout = getEnvAsDuration("EVENTCREW_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.CORSOrigins = getEnvAsList("EVENTCREW_CORS_ORIGINS", cfg.Server.CORSOrigins)
	cfg.Server.RateLimit = getEnvAsFloat("EVENTCREW_RATE_LIMIT", cfg.Server.RateLimit)
	cfg.Server.RateBurst = getEnvAsInt("EVENTCREW_RATE_BURST", cfg.Server.RateBurst)

	cfg.Log.Level = getEnv("EVENTCREW_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("EVENTCREW_LOG_FORMAT", cfg.Log.Format)

	cfg.Model.Provider = getEnv("EVENTCREW_MODEL_PROVIDER", cfg.Model.Provider)
	cfg.Model.Name = getEnv("EVENTCREW_MODEL_NAME", cfg.Model.Name)
	cfg.Model.BaseURL = getEnv("EVENTCREW_MODEL_BASE_URL", cfg.Model.BaseURL)
	cfg.Model.Temperature = getEnvAsFloat("EVENTCREW_MODEL_TEMPERATURE", cfg.Model.Temperature)

	cfg.Crew.MaxModelCalls = getEnvAsInt("EVENTCREW_MAX_MODEL_CALLS", cfg.Crew.MaxModelCalls)
	cfg.Crew.MaxHistoryMessages = getEnvAsInt("EVENTCREW_MAX_HISTORY_MESSAGES", cfg.Crew.MaxHistoryMessages)
	cfg.Crew.Streaming = getEnvAsBool("EVENTCREW_STREAMING", cfg.Crew.Streaming)

	cfg.Search.Endpoint = getEnv("EVENTCREW_SEARCH_ENDPOINT", cfg.Search.Endpoint)
	cfg.Search.NumResults = getEnvAsInt("EVENTCREW_SEARCH_NUM_RESULTS", cfg.Search.NumResults)
	cfg.Search.APIKey = getEnv("EVENTCREW_SEARCH_API_KEY", cfg.Search.APIKey)

	cfg.Artifacts.Backend = getEnv("EVENTCREW_ARTIFACT_BACKEND", cfg.Artifacts.Backend)
	cfg.Artifacts.Dir = getEnv("EVENTCREW_ARTIFACT_DIR", cfg.Artifacts.Dir)
	cfg.Artifacts.MaxRuns = getEnvAsInt("EVENTCREW_ARTIFACT_MAX_RUNS", cfg.Artifacts.MaxRuns)

	// S3
	cfg.Artifacts.S3.Bucket = getEnv("EVENTCREW_S3_BUCKET", cfg.Artifacts.S3.Bucket)
	cfg.Artifacts.S3.Prefix = getEnv("EVENTCREW_S3_PREFIX", cfg.Artifacts.S3.Prefix)
	cfg.Artifacts.S3.Region = getEnv("EVENTCREW_S3_REGION", cfg.Artifacts.S3.Region)
	cfg.Artifacts.S3.Endpoint = getEnv("EVENTCREW_S3_ENDPOINT", cfg.Artifacts.S3.Endpoint)
	cfg.Artifacts.S3.AccessKey = getEnv("EVENTCREW_S3_ACCESS_KEY", cfg.Artifacts.S3.AccessKey)
	cfg.Artifacts.S3.SecretKey = getEnv("EVENTCREW_S3_SECRET_KEY", cfg.Artifacts.S3.SecretKey)
	cfg.Artifacts.S3.UsePathStyle = getEnvAsBool("EVENTCREW_S3_USE_PATH_STYLE", cfg.Artifacts.S3.UsePathStyle)

	// Redis
	cfg.Artifacts.Redis.Addr = getEnv("EVENTCREW_REDIS_ADDR", cfg.Artifacts.Redis.Addr)
	cfg.Artifacts.Redis.Password = getEnv("EVENTCREW_REDIS_PASSWORD", cfg.Artifacts.Redis.Password)
	cfg.Artifacts.Redis.DB = getEnvAsInt("EVENTCREW_REDIS_DB", cfg.Artifacts.Redis.DB)
	cfg.Artifacts.Redis.Prefix = getEnv("EVENTCREW_REDIS_PREFIX", cfg.Artifacts.Redis.Prefix)
	cfg.Artifacts.Redis.TTL = getEnvAsDuration("EVENTCREW_REDIS_TTL", cfg.Artifacts.Redis.TTL)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}
