package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	Parser ParserConfig `json:"parser"`
	Query  QueryConfig  `json:"query"`
	UI     UIConfig     `json:"ui"`
}

// ParserConfig holds streaming-parser settings
type ParserConfig struct {
	ChunkSizeKB     int  `json:"chunk_size_kb"`      // bytes consumed per step
	MaxMemoryMB     int  `json:"max_memory_mb"`      // soft retained-memory ceiling
	ValidateOnParse bool `json:"validate_on_parse"`  // structural validation before extraction
	PrioritizeEndpoints bool `json:"prioritize_endpoints"` // stream records before schemas resolve
}

// QueryConfig holds adaptive query engine settings
type QueryConfig struct {
	WorkerThreshold int     `json:"worker_threshold"` // collection size that routes to the worker
	FuzzyThreshold  float64 `json:"fuzzy_threshold"`  // minimum similarity on the worker path
	ForceRoute      string  `json:"force_route"`      // "", "inline" or "worker"
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme            string `json:"theme"`
	DensityMode      string `json:"density_mode"` // "comfortable" or "compact"
	Overscan         int    `json:"overscan"`
	ScrollThrottleMs int    `json:"scroll_throttle_ms"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			ChunkSizeKB:         64,
			MaxMemoryMB:         50,
			ValidateOnParse:     true,
			PrioritizeEndpoints: true,
		},
		Query: QueryConfig{
			WorkerThreshold: 100,
			FuzzyThreshold:  0.4,
		},
		UI: UIConfig{
			Theme:            "dark",
			DensityMode:      "comfortable",
			Overscan:         3,
			ScrollThrottleMs: 16,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".specmaster", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}
	cfg.fillZeroes()

	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// fillZeroes replaces missing numeric fields with defaults so a
// hand-edited config cannot zero out a budget.
func (c *Config) fillZeroes() {
	def := DefaultConfig()
	if c.Parser.ChunkSizeKB <= 0 {
		c.Parser.ChunkSizeKB = def.Parser.ChunkSizeKB
	}
	if c.Parser.MaxMemoryMB <= 0 {
		c.Parser.MaxMemoryMB = def.Parser.MaxMemoryMB
	}
	if c.Query.WorkerThreshold <= 0 {
		c.Query.WorkerThreshold = def.Query.WorkerThreshold
	}
	if c.Query.FuzzyThreshold <= 0 {
		c.Query.FuzzyThreshold = def.Query.FuzzyThreshold
	}
	if c.UI.Overscan <= 0 {
		c.UI.Overscan = def.UI.Overscan
	}
	if c.UI.ScrollThrottleMs <= 0 {
		c.UI.ScrollThrottleMs = def.UI.ScrollThrottleMs
	}
}
