package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	// ExtractContent enables child-record extraction during classification.
	// When false, captures are classified but only the primary type and its
	// own payload populate metadata; no child records are produced.
	ExtractContent bool `json:"extract_content"`

	// SkipAPIKeys drops any capture whose primary type is apiKey after
	// classification. The capture is still classified; the drop is a
	// consumer policy, not an engine filter.
	SkipAPIKeys bool `json:"skip_api_keys,omitempty"`

	// MaxContentChars is the maximum character count for captured content.
	MaxContentChars int `json:"max_content_chars"`

	// CodecCacheSize bounds the metadata codec's containment cache.
	// 0 uses the codec default.
	CodecCacheSize int `json:"codec_cache_size,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ExtractContent:  true,
		MaxContentChars: 200000,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist. Fields absent from the
// file keep their defaults.
func Load(baseDir string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(baseDir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxContentChars <= 0 {
		cfg.MaxContentChars = DefaultConfig().MaxContentChars
	}
	return cfg, nil
}
