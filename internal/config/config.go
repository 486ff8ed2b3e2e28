package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Storage StorageConfig
	Session SessionConfig
	Log     LogConfig
	Batch   BatchConfig
}

type ServerConfig struct {
	Port string
	Env  string
	// LoadingGrace is how long a page render waits for a freshly mounted
	// resource before showing the loading state.
	LoadingGrace time.Duration
}

type BackendConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type BatchConfig struct {
	Concurrency int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and defaults.")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("env", "development")
	v.SetDefault("loading_grace", "300ms")
	v.SetDefault("backend_base_url", "http://localhost:8000")
	v.SetDefault("request_timeout", "60s")
	v.SetDefault("upload_path", "./uploads")
	v.SetDefault("max_file_size", 26214400)
	v.SetDefault("session_ttl", "30m")
	v.SetDefault("session_cleanup_interval", "5m")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("batch_concurrency", 3)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("port"),
			Env:          v.GetString("env"),
			LoadingGrace: v.GetDuration("loading_grace"),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(v.GetString("backend_base_url"), "/"),
			RequestTimeout: v.GetDuration("request_timeout"),
		},
		Storage: StorageConfig{
			UploadPath:  v.GetString("upload_path"),
			MaxFileSize: v.GetInt64("max_file_size"),
		},
		Session: SessionConfig{
			TTL:             v.GetDuration("session_ttl"),
			CleanupInterval: v.GetDuration("session_cleanup_interval"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Batch: BatchConfig{
			Concurrency: v.GetInt("batch_concurrency"),
		},
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend_base_url must be an absolute URL, got %q", c.Backend.BaseURL)
	}
	if c.Backend.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.Batch.Concurrency <= 0 {
		c.Batch.Concurrency = 1
	}
	return nil
}
