// migrate aplica las migraciones goose embebidas sobre la base configurada.
//
// Uso: go run ./cmd/migrate [up|down|status|version|redo|reset] [args...]
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/replenishment-api/internal/infrastructure/postgres"
	"github.com/jhoicas/replenishment-api/pkg/config"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, command, args...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migraciones")
	}
	log.Info().Str("command", command).Msg("migraciones ejecutadas")
}
