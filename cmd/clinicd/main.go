// clinicd serves the bundled reference backend: the in-memory clinic API the
// client is developed and tested against.
package main

import (
	"os"

	"github.com/luis5368/web-clinica-medica/internal/devserver"
	"github.com/luis5368/web-clinica-medica/internal/infrastructure/config"
	"github.com/luis5368/web-clinica-medica/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	srv := devserver.New(cfg.Server.JWTSecret, cfg.Server.TokenTTL, log)

	log.Info().Str("port", cfg.Server.Port).Msg("clinicd listening")
	if err := srv.Start(":" + cfg.Server.Port); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
