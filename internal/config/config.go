// Package config provides unified configuration loading for the CV OCR
// service. Supports YAML files, environment variables, and programmatic
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Workspace     WorkspaceConfig     `yaml:"workspace"`
	Raster        RasterConfig        `yaml:"raster"`
	OCR           OCRConfig           `yaml:"ocr"`
	Conversion    ConversionConfig    `yaml:"conversion"`
	Delivery      DeliveryConfig      `yaml:"delivery"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
}

// WorkspaceConfig holds intermediate artifact staging settings.
type WorkspaceConfig struct {
	BaseDir string `yaml:"base_dir"`
}

// RasterConfig holds page rendering settings.
type RasterConfig struct {
	// Scale is the upscale factor over the 72 DPI PDF user-space default.
	// 2.0 renders at 144 DPI, which noticeably helps recognition of small fonts.
	Scale float64 `yaml:"scale"`
}

// OCRConfig holds recognition engine settings.
type OCRConfig struct {
	Languages   []string `yaml:"languages"`
	Concurrency int      `yaml:"concurrency"`
}

// ConversionConfig holds word-processor conversion settings.
type ConversionConfig struct {
	SofficePath string        `yaml:"soffice_path"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DeliveryConfig holds outbound webhook settings.
type DeliveryConfig struct {
	WebhookURL string        `yaml:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8000,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			MaxUploadBytes:   32 << 20,
		},
		Workspace: WorkspaceConfig{
			BaseDir: os.TempDir(),
		},
		Raster: RasterConfig{
			Scale: 2.0,
		},
		OCR: OCRConfig{
			Languages:   []string{"eng"},
			Concurrency: 2,
		},
		Conversion: ConversionConfig{
			SofficePath: "soffice",
			Timeout:     60 * time.Second,
		},
		Delivery: DeliveryConfig{
			WebhookURL: "",
			Timeout:    10 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("WORKSPACE_DIR"); v != "" {
		cfg.Workspace.BaseDir = v
	}

	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Delivery.WebhookURL = v
	}

	if v := os.Getenv("SOFFICE_PATH"); v != "" {
		cfg.Conversion.SofficePath = v
	}

	if v := os.Getenv("OCR_LANGUAGES"); v != "" {
		cfg.OCR.Languages = strings.Split(v, ",")
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Workspace.BaseDir == "" {
		return fmt.Errorf("workspace base_dir must not be empty")
	}

	if c.Raster.Scale <= 0 {
		return fmt.Errorf("invalid raster scale: %f", c.Raster.Scale)
	}

	if c.OCR.Concurrency < 1 {
		return fmt.Errorf("invalid ocr concurrency: %d", c.OCR.Concurrency)
	}

	if c.Conversion.Timeout <= 0 {
		return fmt.Errorf("invalid conversion timeout: %s", c.Conversion.Timeout)
	}

	if c.Delivery.Timeout <= 0 {
		return fmt.Errorf("invalid delivery timeout: %s", c.Delivery.Timeout)
	}

	return nil
}
