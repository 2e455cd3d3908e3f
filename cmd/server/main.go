package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/neairports/assets"
	"github.com/woozymasta/neairports/internal/config"
	"github.com/woozymasta/neairports/internal/dataset"
	"github.com/woozymasta/neairports/internal/explorer"
	"github.com/woozymasta/neairports/internal/geocode"
	"github.com/woozymasta/neairports/internal/logger"
	"github.com/woozymasta/neairports/internal/metrics"
	"github.com/woozymasta/neairports/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const title = "New England Airports Explorer"

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string        `short:"c" long:"config"           env:"CONFIG_FILE"      description:"Path to configuration file" default:"config.yaml"`
	Addr        string        `short:"a" long:"addr"             env:"LISTEN_ADDRESS"   description:"Address to listen on"       default:"0.0.0.0"`
	Port        int           `short:"p" long:"port"             env:"LISTEN_PORT"      description:"Port to listen on"          default:"8080"`
	Dataset     string        `short:"d" long:"dataset"          env:"DATASET_PATH"     description:"Override dataset CSV path"`
	NoGeocoder  bool          `          long:"no-geocoder"      env:"NO_GEOCODER"      description:"Disable the nearest airports lookup"`
	NoMetrics   bool          `          long:"no-metrics"       env:"NO_METRICS"       description:"Disable the /metrics endpoint"`
	ShutdownTTL time.Duration `          long:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" description:"Graceful shutdown timeout" default:"10s"`
}

func main() {
	envErr := godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()
	if envErr != nil {
		log.Debug().Msg("No .env file loaded, using process environment")
	}

	// Load Config
	cfg, found, err := config.LoadOptional(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.ConfigFile).Msg("Failed to load configuration")
	}
	if !found {
		log.Warn().Str("path", opts.ConfigFile).Msg("Configuration file not found, using defaults")
	}
	if opts.Dataset != "" {
		cfg.Dataset.Path = opts.Dataset
		cfg.Dataset.S3 = nil
	}
	if opts.NoGeocoder {
		cfg.Geocoder.Disabled = true
	}

	var collector *metrics.Collector
	if !opts.NoMetrics {
		if collector, err = metrics.NewCollector(nil); err != nil {
			log.Fatal().Err(err).Msg("Failed to register metrics")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := dataset.NewSource(cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure dataset source")
	}
	store := dataset.NewStore(src, cfg.Dataset.CheckInterval, collector)
	if err := store.Load(ctx); err != nil {
		log.Fatal().Err(err).Str("source", src.Name()).Msg("Failed to load dataset")
	}

	var locator explorer.Locator
	if !cfg.Geocoder.Disabled {
		client := &http.Client{Timeout: cfg.Geocoder.Timeout}
		locator = geocode.NewNominatim(cfg.Geocoder, client, collector)
	}

	svc := explorer.NewService(store, locator, collector, cfg.Defaults)

	index, err := assets.Render(title)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render index page")
	}
	srvCtx := server.NewServerContext(svc, collector, index)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("Received termination signal, starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTTL)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	log.Info().
		Str("addr", listenAddr).
		Str("dataset", src.Name()).
		Bool("geocoder", locator != nil).
		Bool("metrics", collector != nil).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Server stopped")
}
