package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Upstream UpstreamConfig `json:"upstream"`
	Assets   AssetsConfig   `json:"assets"`
	Log      LogConfig      `json:"log"`
}

// ServerConfig contains server related configurations
type ServerConfig struct {
	Port         int    `json:"port"`
	TemplatesDir string `json:"templates_dir"`
	StaticDir    string `json:"static_dir"`
}

// UpstreamConfig describes the remote marketplace API
type UpstreamConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// AssetsConfig holds the fallback assets and placeholder values substituted
// for missing or invalid upstream fields
type AssetsConfig struct {
	ItemImage         string `json:"item_image"`
	AuthorImage       string `json:"author_image"`
	PlaceholderWallet string `json:"placeholder_wallet"`
	DefaultFollowers  int    `json:"default_followers"`
	DefaultToken      string `json:"default_token"`
}

// LogConfig contains logging related configurations
type LogConfig struct {
	Level string `json:"level"`
}

// Load loads the configuration from file and environment
func Load() (*Config, error) {
	// Default config
	cfg := &Config{
		Server: ServerConfig{
			Port:         8080,
			TemplatesDir: filepath.Join("web", "templates"),
			StaticDir:    filepath.Join("web", "static"),
		},
		Upstream: UpstreamConfig{
			BaseURL:        "https://us-central1-nft-cloud-functions.cloudfunctions.net",
			TimeoutSeconds: 15,
		},
		Assets: AssetsConfig{
			ItemImage:         "/static/images/nft-fallback.svg",
			AuthorImage:       "/static/images/author-fallback.svg",
			PlaceholderWallet: "UDHUHWudhwd78wdt7edb32uidbwyuidhg7wUHIFUHWewiqdj87dy7",
			DefaultFollowers:  573,
			DefaultToken:      "ERC-192",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	// Look for config file
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		// Use default config file path
		configFile = filepath.Join("configs", "config.json")
	}

	// Try to load config from file
	if _, err := os.Stat(configFile); err == nil {
		file, err := os.Open(configFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, err
		}
	}

	// Override with environment variables if present
	if port := os.Getenv("SERVER_PORT"); port != "" {
		var serverPort int
		if _, err := fmt.Sscanf(port, "%d", &serverPort); err == nil {
			cfg.Server.Port = serverPort
		}
	}

	if dir := os.Getenv("TEMPLATES_DIR"); dir != "" {
		cfg.Server.TemplatesDir = dir
	}
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		cfg.Server.StaticDir = dir
	}

	if baseURL := os.Getenv("UPSTREAM_BASE_URL"); baseURL != "" {
		cfg.Upstream.BaseURL = baseURL
	}
	if timeout := os.Getenv("UPSTREAM_TIMEOUT"); timeout != "" {
		var seconds int
		if _, err := fmt.Sscanf(timeout, "%d", &seconds); err == nil && seconds > 0 {
			cfg.Upstream.TimeoutSeconds = seconds
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}
