package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	WebService   WebServiceConfig   `mapstructure:"web_service"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Export       ExportConfig       `mapstructure:"export"`
	RedisService RedisServiceConfig `mapstructure:"redis_service"`
	Log          LogConfig          `mapstructure:"log"`
}

type WebServiceConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig describes the S3-compatible blob store holding uploaded
// spreadsheets. PublicBaseURL is the host the store serves objects from;
// when empty, public URLs are built from Endpoint.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type RedisServiceConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	DB   int    `mapstructure:"db"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var cfg *Config

// Load loads the configuration from config.yaml
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("web_service.host", "0.0.0.0")
	v.SetDefault("web_service.port", 8080)
	v.SetDefault("web_service.request_timeout_seconds", 30)
	v.SetDefault("database.path", "data/reports.db")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "excel-files")
	v.SetDefault("export.dir", "data/exports")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Get returns the loaded configuration
func Get() *Config {
	return cfg
}

// GetWebServiceAddr returns the web service address
func (c *Config) GetWebServiceAddr() string {
	return fmt.Sprintf("%s:%d", c.WebService.Host, c.WebService.Port)
}

// GetRedisAddr returns the redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisService.Host, c.RedisService.Port)
}

// RequestTimeout returns the per-call timeout applied to blob store,
// database and export operations.
func (c *Config) RequestTimeout() time.Duration {
	if c.WebService.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.WebService.RequestTimeoutSeconds) * time.Second
}
