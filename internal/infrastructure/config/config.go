package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBaseURL points at the clinic backend the client talks to.
	APIBaseURL string        `env:"CLINICA_API_URL, default=http://localhost:8080"`
	StateFile  string        `env:"CLINICA_STATE_FILE"`
	LogLevel   string        `env:"CLINICA_LOG_LEVEL, default=info"`
	LogPretty  bool          `env:"CLINICA_LOG_PRETTY, default=false"`
	Timeout    time.Duration `env:"CLINICA_HTTP_TIMEOUT, default=10s"`

	Server ServerConfig
}

// ServerConfig configures the bundled reference backend (clinicd).
type ServerConfig struct {
	Port      string        `env:"CLINICA_SERVER_PORT, default=8080"`
	JWTSecret string        `env:"CLINICA_JWT_SECRET, default=dev-secret"`
	TokenTTL  time.Duration `env:"CLINICA_TOKEN_TTL, default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
