package client

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the SDK settings that may come from the environment, using
// the prefix "FSAD_". Example: FSAD_BASE_URL=http://clinic:8080 FSAD_DEBUG=true.
type Config struct {
	BaseURL     string        `envconfig:"BASE_URL"     default:"http://localhost:8080"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	Debug       bool          `envconfig:"DEBUG"        default:"false"`
}

// LoadConfig populates Config from environment variables (prefix FSAD_).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("FSAD", &c)
}

// NewFromEnv builds a Client from LoadConfig. Options passed by the caller
// are applied after the ones derived from the environment.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	base := []Option{WithHTTPTimeout(cfg.HTTPTimeout), WithDebugLogging(cfg.Debug)}
	return NewE(cfg.BaseURL, append(base, opts...)...)
}
