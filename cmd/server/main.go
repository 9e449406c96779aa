package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/greenmap/internal/catalog"
	"github.com/woozymasta/greenmap/internal/config"
	"github.com/woozymasta/greenmap/internal/kpi"
	"github.com/woozymasta/greenmap/internal/logger"
	"github.com/woozymasta/greenmap/internal/selection"
	"github.com/woozymasta/greenmap/internal/server"
	"github.com/woozymasta/greenmap/internal/source"
	"github.com/woozymasta/greenmap/internal/viewer"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"   env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"     env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"     env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	Language   string `short:"l" long:"language" env:"LANGUAGE"       description:"Override KPI display language"`
}

func main() {
	// .env is optional, real environment wins
	_ = godotenv.Load()

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

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Language != "" {
		cfg.Language = opts.Language
	}

	src := source.New(cfg.PointerTolerance)
	for _, l := range cfg.Layers {
		layer, err := source.LoadLayer(l.Name, l.File, l.MinZoom, l.MaxZoom)
		if err != nil {
			log.Fatal().Err(err).Str("layer", l.Name).Msg("Failed to load layer")
		}
		src.AddLayer(layer)
	}

	channels := selection.NewChannels()
	v := viewer.New(selection.NewState(channels), catalog.New(), src, cfg.Catalog.Layers)
	srvCtx := server.NewServerContext(v, channels, kpi.NewFormatter(cfg.Language), cfg.Catalog.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The initial view counts as the first settled viewport
	src.SetViewport(source.Viewport{Bound: cfg.InitialView.Bound(), Zoom: cfg.InitialView.Zoom})
	srvCtx.StartSeeding(ctx)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	log.Info().
		Str("addr", listenAddr).
		Int("layers", len(cfg.Layers)).
		Str("language", cfg.Language).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
