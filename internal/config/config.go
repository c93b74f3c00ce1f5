// Package config provides configuration loading and structs for the GovGPT server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Topic     TopicConfig     `yaml:"topic"`
	Storage   StorageConfig   `yaml:"storage"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	News      NewsConfig      `yaml:"news"`
	Videos    VideosConfig    `yaml:"videos"`
	Social    SocialConfig    `yaml:"social"`
	LLM       LLMConfig       `yaml:"llm"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TopicConfig anchors keyword extraction and source queries to one
// governance domain.
type TopicConfig struct {
	Anchor string `yaml:"anchor"`
}

// StorageConfig holds paths for the database and the keyword index.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// IngestConfig holds document ingestion and watch settings.
type IngestConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
}

// RetrievalConfig holds document search and chunking settings.
type RetrievalConfig struct {
	Limit        int `yaml:"limit"`
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// NewsConfig holds GDELT news retrieval settings. Disabled turns the
// source off entirely; an empty BaseURL means the public API.
type NewsConfig struct {
	Disabled     bool   `yaml:"disabled"`
	BaseURL      string `yaml:"base_url"`
	LookbackDays int    `yaml:"lookback_days"`
	MaxResults   int    `yaml:"max_results"`
}

// VideosConfig holds YouTube search settings. The API key is read from the
// environment variable named by APIKeyEnv, never from the file itself.
type VideosConfig struct {
	Disabled   bool   `yaml:"disabled"`
	RegionCode string `yaml:"region_code"`
	MaxResults int    `yaml:"max_results"`
	APIKeyEnv  string `yaml:"api_key_env"`
}

// SocialConfig holds Mastodon search and sentiment settings.
type SocialConfig struct {
	Disabled    bool   `yaml:"disabled"`
	InstanceURL string `yaml:"instance_url"`
	MaxPosts    int    `yaml:"max_posts"`
	TokenEnv    string `yaml:"token_env"`
}

// LLMConfig holds language model settings.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	APIKeyEnv   string  `yaml:"api_key_env"`
}

// APIKey resolves the model API key from the configured environment
// variable. Empty means no model is available.
func (l *LLMConfig) APIKey() string {
	return os.Getenv(l.APIKeyEnv)
}

// APIKey resolves the video API key from the environment.
func (v *VideosConfig) APIKey() string {
	return os.Getenv(v.APIKeyEnv)
}

// Token resolves the social access token from the environment. The token
// is optional; public instances answer search without one.
func (s *SocialConfig) Token() string {
	return os.Getenv(s.TokenEnv)
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	for i := range cfg.Ingest.Directories {
		cfg.Ingest.Directories[i] = expandPath(cfg.Ingest.Directories[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
