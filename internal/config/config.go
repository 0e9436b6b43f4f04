package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Cache   CacheConfig
	Log     LogConfig
	AI      AIConfig
	Dataset DatasetConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ExtractCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// AIConfig configures the generative-model service used for entity
// extraction. Model is deliberately a runtime value, not a constant, so
// the model can be substituted without code changes.
type AIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int64
	RequestTimeout time.Duration
}

// DatasetConfig points at the two backing point-geometry datasets.
// Geometries are stored in EPSG:5179.
type DatasetConfig struct {
	MartPath        string
	FirestationPath string
	NameField       string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ExtractCacheTTL: time.Duration(viper.GetInt("EXTRACT_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		AI: AIConfig{
			APIKey:         viper.GetString("AI_API_KEY"),
			BaseURL:        viper.GetString("AI_BASE_URL"),
			Model:          viper.GetString("AI_MODEL"),
			MaxTokens:      viper.GetInt64("AI_MAX_TOKENS"),
			RequestTimeout: time.Duration(viper.GetInt("AI_REQUEST_TIMEOUT")) * time.Second,
		},
		Dataset: DatasetConfig{
			MartPath:        viper.GetString("DATASET_MART_PATH"),
			FirestationPath: viper.GetString("DATASET_FIRESTATION_PATH"),
			NameField:       viper.GetString("DATASET_NAME_FIELD"),
		},
	}

	// Set default values if not provided
	if cfg.Cache.ExtractCacheTTL == 0 {
		cfg.Cache.ExtractCacheTTL = 10 * time.Minute
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "claude-haiku-4-5-20251001"
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 256
	}
	if cfg.AI.RequestTimeout == 0 {
		cfg.AI.RequestTimeout = 30 * time.Second
	}
	if cfg.Dataset.MartPath == "" {
		cfg.Dataset.MartPath = "data/mart.shp"
	}
	if cfg.Dataset.FirestationPath == "" {
		cfg.Dataset.FirestationPath = "data/firestation.shp"
	}
	if cfg.Dataset.NameField == "" {
		cfg.Dataset.NameField = "nam"
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
