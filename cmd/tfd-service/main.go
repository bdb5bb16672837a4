package main

import (
	"fmt"
	"os"

	"tfd-service/internal/audit"
	"tfd-service/internal/auth"
	"tfd-service/internal/config"
	"tfd-service/internal/db"
	httphandler "tfd-service/internal/http"
	"tfd-service/internal/http/middleware"
	"tfd-service/internal/logger"
	"tfd-service/internal/repository"
	"tfd-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	recorder := audit.NewRecorder(database, log, 256)

	usuarioRepo := repository.NewUsuarioRepository(database)
	processoRepo := repository.NewProcessoRepository(database)
	viagemRepo := repository.NewViagemRepository(database)
	cadastroRepo := repository.NewCadastroRepository(database)
	valeRepo := repository.NewValeRepository(database)

	processoService := service.NewProcessoService(usuarioRepo, processoRepo, cadastroRepo, recorder)
	viagemService := service.NewViagemService(viagemRepo, recorder)
	cadastroService := service.NewCadastroService(cadastroRepo, recorder)
	valeService := service.NewValeService(valeRepo, processoRepo, recorder)
	publicoService := service.NewPublicoService(processoRepo, cfg.Public.BaseURL)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(processoService, viagemService, cadastroService, valeService, publicoService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting tfd service")

	runErr := router.Run(addr)

	// Flush pending audit rows before exiting; log.Fatal skips deferred calls.
	recorder.Close()
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("server stopped")
	}
}
