// Package config loads the service configuration from an optional YAML file
// and EVENTCREW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Artifact backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendS3     = "s3"
	BackendRedis  = "redis"
)

// Model providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Model     ModelConfig     `yaml:"model"`
	Crew      CrewConfig      `yaml:"crew"`
	Search    SearchConfig    `yaml:"search"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	RunTimeout      time.Duration `yaml:"run_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	// RateLimit is the sustained number of /run-event requests per second
	// (0 disables limiting).
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

type ModelConfig struct {
	Provider string `yaml:"provider"`
	// Name selects the provider model; empty uses the provider default.
	Name        string  `yaml:"name"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
}

type CrewConfig struct {
	MaxModelCalls      int  `yaml:"max_model_calls"`
	MaxHistoryMessages int  `yaml:"max_history_messages"`
	Streaming          bool `yaml:"streaming"`
}

type SearchConfig struct {
	Endpoint   string `yaml:"endpoint"`
	NumResults int    `yaml:"num_results"`
	// APIKey is used when a request does not carry its own key.
	APIKey string `yaml:"api_key"`
}

type ArtifactsConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	// MaxRuns bounds the runs the memory backend keeps (0 keeps all).
	MaxRuns int         `yaml:"max_runs"`
	S3      S3Config    `yaml:"s3"`
	Redis   RedisConfig `yaml:"redis"`
}

type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit:       0,
			RateBurst:       5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Model: ModelConfig{
			Provider:    ProviderOpenAI,
			Temperature: 0.7,
		},
		Crew: CrewConfig{
			MaxModelCalls:      10,
			MaxHistoryMessages: 20,
		},
		Search: SearchConfig{
			Endpoint:   "https://google.serper.dev/search",
			NumResults: 10,
		},
		Artifacts: ArtifactsConfig{
			Backend: BackendMemory,
			Dir:     "artifacts",
			MaxRuns: 1000,
			S3: S3Config{
				Region: "us-east-1",
				Prefix: "eventcrew",
			},
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "eventcrew:artifacts",
			},
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	LoadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.RunTimeout < 0 {
		return errors.New("server.run_timeout must not be negative")
	}
	if c.Server.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return errors.New("server.rate_burst must be at least 1 when rate limiting")
	}

	switch c.Model.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}

	if c.Crew.MaxModelCalls < 1 {
		return errors.New("crew.max_model_calls must be at least 1")
	}

	if c.Artifacts.MaxRuns < 0 {
		return errors.New("artifacts.max_runs must not be negative")
	}

	switch c.Artifacts.Backend {
	case BackendMemory, BackendRedis:
	case BackendFile:
		if c.Artifacts.Dir == "" {
			return errors.New("artifacts.dir is required for the file backend")
		}
	case BackendS3:
		if c.Artifacts.S3.Bucket == "" {
			return errors.New("artifacts.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown artifact backend %q", c.Artifacts.Backend)
	}

	return nil
}
