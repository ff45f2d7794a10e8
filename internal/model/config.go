package model

import (
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
)

// Config is the complete application configuration.
type Config struct {
	Ranker       RankerConfig       `yaml:"ranker" json:"ranker"`
	Cache        CacheConfig        `yaml:"cache" json:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" json:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" json:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" json:"output"`
	LLM          LLMConfig          `yaml:"llm" json:"llm"`
}

// RankerConfig selects and tunes the tweet ranking strategy.
type RankerConfig struct {
	// Strategy is the registered ranking strategy name ("formula1", "llm").
	// Unknown or unconstructable strategies fall back to formula1.
	Strategy string `yaml:"strategy" json:"strategy"`

	// Weights overrides individual formula1 term constants by name
	// (e.g. "few_words_penalty": -5). Unknown names are ignored.
	Weights map[string]float64 `yaml:"weights,omitempty" json:"weights,omitempty"`
}

// CacheConfig controls the layered report cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// ConcurrencyConfig sizes the batch worker pool.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// RateLimitingConfig throttles calls to external ranking providers.
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Dir           string `yaml:"dir" json:"dir"`
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" json:"include_footer"`
}

// LLMConfig configures the optional LLM provider used by the "llm" ranking
// strategy and the optional report summary.
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled).
	Provider string `yaml:"provider" json:"provider"`

	Model   string `yaml:"model" json:"model"`
	APIKey  string `yaml:"-" json:"-"`
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`

	// Timeout per API request, seconds.
	Timeout int `yaml:"timeout" json:"timeout"`

	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Ranker: RankerConfig{
			Strategy: "formula1",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(xdg.CacheHome, "morespeech"),
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Dir:           "./morespeech-reports",
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 1000,
		},
	}
}
