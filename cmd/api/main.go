package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"city-explorer-api/internal/config"
	"city-explorer-api/internal/geocoder"
	"city-explorer-api/internal/handler"
	"city-explorer-api/internal/logging"
	"city-explorer-api/internal/repository"
	"city-explorer-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

//	@title			City Explorer API
//	@version		1.0
//	@description	Resolves free-text place queries to coordinates through a persistent location cache.
//	@BasePath		/
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	if err := logging.Setup(config.LogLevel, config.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("cannot set up logging")
	}
	gin.SetMode(config.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	geo := geocoder.NewClient(config.GeocodeAPIKey,
		geocoder.WithBaseURL(config.GeocodeBaseURL),
		geocoder.WithTimeout(config.GeocodeTimeout),
	)
	locationService := service.NewLocationService(repo, geo)
	locationHandler := handler.NewLocationHandler(locationService)

	srv := &http.Server{
		Addr:    config.Addr(),
		Handler: handler.NewRouter(locationHandler),
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
