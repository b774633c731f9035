package main

import (
	"context"
	"errors"
	"time"

	"github.com/Sonicaii/lerche/pkg/config"
	"github.com/Sonicaii/lerche/pkg/logger"
	"github.com/Sonicaii/lerche/pkg/os"
	"github.com/Sonicaii/lerche/pkg/thread"
	"github.com/Sonicaii/lerche/pkg/viewer"
)

var Version = "dev"

func run() {
	config.ParseFlags()
	conf := config.NewConfig()

	log := logger.NewConsole(conf.Viewer.Debug, conf.Viewer.Tag, false)
	log.Info().Msgf("version: %v", Version)
	log.Debug().Msgf("config: %+v", conf)

	if dir := config.Path(); dir != "" {
		stop, err := config.Watch(dir, log, func(c config.ViewerConfig) {
			logger.SetGlobalLevel(c.Viewer.Debug)
		})
		if err != nil {
			log.Warn().Err(err).Msg("config watch disabled")
		} else {
			defer stop()
		}
	}

	app, err := viewer.New(conf, log)
	if err != nil {
		if errors.Is(err, viewer.ErrAlreadyRunning) {
			log.Fatal().Msg("lerche is already running")
		}
		log.Fatal().Err(err).Msg("init failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-os.ExpectTermination()
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("viewer stopped")
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := app.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func main() {
	thread.MainWrapMaybe(run)
}
