// Package config loads and validates extractor configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fundwire/extractor/internal/acquire"
	"github.com/fundwire/extractor/internal/pipeline"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Acquire  AcquireConfig  `mapstructure:"acquire"`
	Render   RenderConfig   `mapstructure:"render"`
	LLM      LLMConfig      `mapstructure:"llm"`
	People   PeopleConfig   `mapstructure:"people"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Sink     SinkConfig     `mapstructure:"sink"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	PubSub   PubSubConfig   `mapstructure:"pubsub"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// AcquireConfig governs direct fetching and content extraction.
type AcquireConfig struct {
	UserAgent        string `mapstructure:"user_agent"`
	FetchTimeoutSec  int    `mapstructure:"fetch_timeout_seconds"`
	MaxRedirects     int    `mapstructure:"max_redirects"`
	MinContentChars  int    `mapstructure:"min_content_chars"`
	SelectorMinChars int    `mapstructure:"selector_min_chars"`
}

// RenderConfig configures the headless rendering subsystem.
type RenderConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	MaxParallel   int     `mapstructure:"max_parallel"`
	NavTimeoutSec int     `mapstructure:"nav_timeout_seconds"`
	DomainQPS     float64 `mapstructure:"domain_qps"`
	MinHTMLBytes  int     `mapstructure:"min_html_bytes"`
}

// LLMConfig configures the text-generation provider.
type LLMConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// PeopleConfig configures the executive-contact directory.
type PeopleConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_seconds"`
	PerPage    int    `mapstructure:"per_page"`
}

// PipelineConfig controls retry behavior.
type PipelineConfig struct {
	MaxAttempts   int `mapstructure:"max_attempts"`
	RetryDelaySec int `mapstructure:"retry_delay_seconds"`
}

// SinkConfig selects and configures where record rows are appended.
// Kind is one of "postgres", "csv", or "memory".
type SinkConfig struct {
	Kind    string `mapstructure:"kind"`
	DSN     string `mapstructure:"dsn"`
	Table   string `mapstructure:"table"`
	CSVPath string `mapstructure:"csv_path"`
}

// ArchiveConfig selects where acquired content artifacts are stored.
// Kind is one of "gcs", "local", or "none".
type ArchiveConfig struct {
	Kind      string `mapstructure:"kind"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
	LocalDir  string `mapstructure:"local_dir"`
}

// PubSubConfig holds metadata for completion-event notifications.
type PubSubConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`
	Topic     string `mapstructure:"topic"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FUNDWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("acquire.fetch_timeout_seconds", 30)
	v.SetDefault("acquire.max_redirects", 5)
	v.SetDefault("acquire.min_content_chars", 100)
	v.SetDefault("acquire.selector_min_chars", 200)
	v.SetDefault("render.enabled", false)
	v.SetDefault("render.max_parallel", 1)
	v.SetDefault("render.nav_timeout_seconds", 15)
	v.SetDefault("render.domain_qps", 0.5)
	v.SetDefault("render.min_html_bytes", 2000)
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("people.timeout_seconds", 12)
	v.SetDefault("people.per_page", 10)
	v.SetDefault("pipeline.max_attempts", 3)
	v.SetDefault("pipeline.retry_delay_seconds", 3)
	v.SetDefault("sink.kind", "csv")
	v.SetDefault("sink.table", "funding_records")
	v.SetDefault("sink.csv_path", "data/funding_records.csv")
	v.SetDefault("archive.kind", "none")
	v.SetDefault("archive.prefix", "content")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	if c.Acquire.FetchTimeoutSec <= 0 {
		return fmt.Errorf("acquire.fetch_timeout_seconds must be > 0")
	}
	if c.Render.Enabled && c.Render.MaxParallel <= 0 {
		return fmt.Errorf("render.max_parallel must be > 0 when rendering is enabled")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if c.People.Enabled && c.People.APIKey == "" {
		return fmt.Errorf("people.api_key must be set when people lookup is enabled")
	}
	switch c.Sink.Kind {
	case "postgres":
		if c.Sink.DSN == "" {
			return fmt.Errorf("sink.dsn is required for the postgres sink")
		}
	case "csv":
		if c.Sink.CSVPath == "" {
			return fmt.Errorf("sink.csv_path is required for the csv sink")
		}
	case "memory":
	default:
		return fmt.Errorf("sink.kind must be one of postgres, csv, memory")
	}
	switch c.Archive.Kind {
	case "gcs":
		if c.Archive.GCSBucket == "" {
			return fmt.Errorf("archive.gcs_bucket is required for the gcs archive")
		}
	case "local":
		if c.Archive.LocalDir == "" {
			return fmt.Errorf("archive.local_dir is required for the local archive")
		}
	case "none":
	default:
		return fmt.Errorf("archive.kind must be one of gcs, local, none")
	}
	if c.PubSub.Enabled && (c.PubSub.ProjectID == "" || c.PubSub.Topic == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.topic must be set when pubsub is enabled")
	}
	return nil
}

// AcquirerConfig converts the flat knobs into the acquirer's config.
func (c Config) AcquirerConfig() acquire.Config {
	return acquire.Config{
		UserAgent:        c.Acquire.UserAgent,
		FetchTimeout:     time.Duration(c.Acquire.FetchTimeoutSec) * time.Second,
		MaxRedirects:     c.Acquire.MaxRedirects,
		MinContentChars:  c.Acquire.MinContentChars,
		SelectorMinChars: c.Acquire.SelectorMinChars,

		RenderEnabled:        c.Render.Enabled,
		RenderTimeout:        time.Duration(c.Render.NavTimeoutSec) * time.Second,
		RenderMaxConcurrency: c.Render.MaxParallel,
		RenderDomainQPS:      c.Render.DomainQPS,
		RenderMinHTMLBytes:   c.Render.MinHTMLBytes,
	}
}

// RunnerConfig converts the retry knobs into the pipeline's config.
func (c Config) RunnerConfig() pipeline.Config {
	return pipeline.Config{
		MaxAttempts: c.Pipeline.MaxAttempts,
		RetryDelay:  time.Duration(c.Pipeline.RetryDelaySec) * time.Second,
	}
}
