package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Redis         RedisConfig         `yaml:"redis"`
	Advisor       AdvisorConfig       `yaml:"advisor"`
	Classifier    ClassifierConfig    `yaml:"classifier"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Trends        TrendsConfig        `yaml:"trends"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Recommend     RecommendConfig     `yaml:"recommend"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	// Allow override via environment
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// StorageConfig holds document store configuration
type StorageConfig struct {
	Type          string `yaml:"type"` // "memory", "postgres", "dynamodb"
	DatabaseURL   string `yaml:"database_url"`
	DynamoDBTable string `yaml:"dynamodb_table"`
	S3Bucket      string `yaml:"s3_bucket"`
	AWSRegion     string `yaml:"aws_region"`
	AWSProfile    string `yaml:"aws_profile"` // Empty string uses default credential chain (IAM role on ECS)
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c StorageConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return "" // Use default credential chain (IAM role)
		}
		return envProfile
	}
	// On ECS/Lambda, don't use a profile - use IAM role
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// TTL returns the configured cache TTL as a duration
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// AdvisorConfig holds the hosted LLM configuration for the beauty advisor chat
type AdvisorConfig struct {
	ModelID     string  `yaml:"model_id"`
	Region      string  `yaml:"region"`
	Enabled     bool    `yaml:"enabled"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopK        int     `yaml:"top_k"`
	TopP        float64 `yaml:"top_p"`
}

// ClassifierConfig holds the external image classification endpoint settings
type ClassifierConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NotificationsConfig holds reminder delivery settings
type NotificationsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	EmailFrom    string `yaml:"email_from"`
	EmailRegion  string `yaml:"email_region"`
	EmailEnabled bool   `yaml:"email_enabled"`
}

// TrendsConfig holds the trends feed collaborator settings
type TrendsConfig struct {
	FeedURLs        []string `yaml:"feed_urls"`
	PageSize        int      `yaml:"page_size"`
	TimeoutSeconds  int      `yaml:"timeout_seconds"`
	RefreshMinutes  int      `yaml:"refresh_minutes"`
	Enabled         bool     `yaml:"enabled"`
}

// Timeout returns the configured fetch timeout as a duration
func (c TrendsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the feed refresh interval as a duration
func (c TrendsConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMinutes) * time.Minute
}

// CatalogConfig holds the static catalog source settings
type CatalogConfig struct {
	Path string `yaml:"path"` // empty uses the embedded default catalog
}

// RecommendConfig holds recommendation engine tuning
type RecommendConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "memory"
	}
	if cfg.Storage.AWSRegion == "" {
		cfg.Storage.AWSRegion = "us-east-1"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 300
	}
	if cfg.Advisor.ModelID == "" {
		cfg.Advisor.ModelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}
	if cfg.Advisor.Region == "" {
		cfg.Advisor.Region = "us-east-1"
	}
	if cfg.Advisor.MaxTokens == 0 {
		cfg.Advisor.MaxTokens = 1024
	}
	if cfg.Advisor.Temperature == 0 {
		cfg.Advisor.Temperature = 0.7
	}
	if cfg.Advisor.TopK == 0 {
		cfg.Advisor.TopK = 40
	}
	if cfg.Advisor.TopP == 0 {
		cfg.Advisor.TopP = 0.95
	}
	if cfg.Classifier.TimeoutSeconds == 0 {
		cfg.Classifier.TimeoutSeconds = 30
	}
	if cfg.Notifications.EmailRegion == "" {
		cfg.Notifications.EmailRegion = "us-east-1"
	}
	if cfg.Trends.PageSize == 0 {
		cfg.Trends.PageSize = 20
	}
	if cfg.Trends.TimeoutSeconds == 0 {
		cfg.Trends.TimeoutSeconds = 20
	}
	if cfg.Trends.RefreshMinutes == 0 {
		cfg.Trends.RefreshMinutes = 30
	}
	if cfg.Recommend.DefaultLimit == 0 {
		cfg.Recommend.DefaultLimit = 10
	}
	if cfg.Recommend.MaxLimit == 0 {
		cfg.Recommend.MaxLimit = 50
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Storage.DatabaseURL = dbURL
		if cfg.Storage.Type == "memory" {
			cfg.Storage.Type = "postgres"
		}
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if model := os.Getenv("ADVISOR_MODEL_ID"); model != "" {
		cfg.Advisor.ModelID = model
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.Advisor.Region = region
		cfg.Storage.AWSRegion = region
	}
	if baseURL := os.Getenv("CLASSIFIER_BASE_URL"); baseURL != "" {
		cfg.Classifier.BaseURL = baseURL
	}
	if apiKey := os.Getenv("CLASSIFIER_API_KEY"); apiKey != "" {
		cfg.Classifier.APIKey = apiKey
	}
	if from := os.Getenv("NOTIFY_EMAIL_FROM"); from != "" {
		cfg.Notifications.EmailFrom = from
	}

	return cfg, nil
}
