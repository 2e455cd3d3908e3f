package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/neairports/internal/airport"
	"github.com/woozymasta/neairports/internal/config"
	"github.com/woozymasta/neairports/internal/dataset"
	"github.com/woozymasta/neairports/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"  env:"CONFIG_FILE"   description:"Path to configuration file" default:"config.yaml"`
	URL        string        `short:"u" long:"url"     env:"DATASET_URL"   description:"OurAirports CSV URL"`
	Output     string        `short:"o" long:"output"  env:"DATASET_PATH"  description:"Destination path, defaults to the configured dataset path"`
	Timeout    time.Duration `short:"t" long:"timeout" env:"FETCH_TIMEOUT" description:"Download timeout" default:"2m"`
	Force      bool          `short:"f" long:"force"   description:"Force overwrite of existing files"`
	Upload     bool          `short:"U" long:"upload"  description:"Upload the dataset to the configured S3 object"`
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

	opts.Logger.Setup()
	if envErr != nil {
		log.Debug().Msg("No .env file loaded, using process environment")
	}

	cfg, _, err := config.LoadOptional(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.URL == "" {
		opts.URL = dataset.DefaultFetchURL
	}
	if opts.Output == "" {
		opts.Output = cfg.Dataset.Path
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
		},
		Timeout: opts.Timeout,
	}

	log.Info().
		Str("url", opts.URL).
		Str("output", opts.Output).
		Bool("force", opts.Force).
		Msg("Starting loader")

	records, err := dataset.Fetch(ctx, client, opts.URL, opts.Output, opts.Force)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch dataset")
	}

	universe := airport.Universe(records)
	for _, rc := range airport.CountByRegion(universe) {
		log.Info().
			Str("region", string(rc.Region)).
			Int("airports", rc.Count).
			Msg("Region loaded")
	}
	log.Info().
		Int("records", len(records)).
		Int("new_england", len(universe)).
		Msg("Dataset validated")

	if opts.Upload {
		if cfg.Dataset.S3 == nil {
			log.Fatal().Msg("Upload requested but no S3 dataset is configured")
		}
		s3, err := dataset.NewS3Source(*cfg.Dataset.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure S3 source")
		}
		if err := s3.Upload(ctx, opts.Output); err != nil {
			log.Fatal().Err(err).Msg("Failed to upload dataset")
		}
	}

	log.Info().Msg("Loader finished successfully")
}
