package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/api"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/classifier"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/clients/casperclient"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/config"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/migrations"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/observability/metrics"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/observability/tracing"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/services"
)

const shutdownTimeout = 10 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the Casper Yield Indexer server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// create new db client
	database, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	defer database.Close()

	if err := migrations.RunPostgresMigrations(ctx, database.Pool()); err != nil {
		log.Fatal().Err(err).Msg("error while running db migrations")
	}

	var dbClient db.DbInterface = database
	dbClient = db.NewDbWithMetrics(dbClient)

	streamClient := casperclient.NewClient(&cfg.Stream)

	service := services.NewService(cfg, dbClient, streamClient, classifier.NewTransformMatcher())

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	if err := service.StartIngestion(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while starting event ingestion")
	}

	apiServer := api.New(&cfg.Server, service)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("API server exited")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error while stopping API server")
	}
	if err := service.StopIngestion(); err != nil {
		log.Error().Err(err).Msg("error while stopping event ingestion")
	}

	log.Info().Msg("Shutdown complete")
	return nil
}
