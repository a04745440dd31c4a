package devserver

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the development server settings. Environment variables use
// the DEVAPI_ prefix, e.g. DEVAPI_HTTP_PORT=9000.
type Config struct {
	HTTPPort int  `envconfig:"HTTP_PORT" default:"8080"`
	Seed     bool `envconfig:"SEED"      default:"true"`

	// Secret signs session tokens. Empty picks a random key per process so
	// tokens do not survive a restart.
	Secret string `envconfig:"SECRET" default:""`

	ConsoleLog bool `envconfig:"CONSOLE_LOG" default:"true"`
	Debug      bool `envconfig:"DEBUG"       default:"false"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DEVAPI", &cfg); err != nil {
		return nil, err
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid DEVAPI_HTTP_PORT: %d", cfg.HTTPPort)
	}
	return &cfg, nil
}
