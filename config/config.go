package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the root configuration structure.
type Config struct {
	Stream StreamConfig `json:"stream"`
	Report ReportConfig `json:"report"`
	Refs   RefsConfig   `json:"refs"`
}

// StreamConfig holds pipeline options.
type StreamConfig struct {
	// Workers is the number of parallel builder goroutines.
	// 0 means derive from the CPU count.
	Workers int `json:"workers"`

	// WithBlobs records whether the upstream fast-export invocation
	// should include blob bodies. The parser itself copes either way;
	// this only shapes the suggested export command.
	WithBlobs bool `json:"withBlobs"`
}

// ReportConfig holds summary output defaults.
type ReportConfig struct {
	Format     string `json:"format"`     // console, json, ndjson
	TopAuthors int    `json:"topAuthors"` // Default: 20
}

// RefsConfig holds ref selection options.
type RefsConfig struct {
	Include []string `json:"include"` // Glob patterns on short ref names
	Exclude []string `json:"exclude"`
	Tags    bool     `json:"tags"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Stream: StreamConfig{
			Workers:   0,
			WithBlobs: true,
		},
		Report: ReportConfig{
			Format:     "console",
			TopAuthors: 20,
		},
		Refs: RefsConfig{
			Include: []string{},
			Exclude: []string{},
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{".gitpipe.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".gitpipe.json"))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, ".gitpipe.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
