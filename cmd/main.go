package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gomarket/internal/config"
	"gomarket/internal/handlers"
	"gomarket/internal/logger"
	"gomarket/internal/repository"
	"gomarket/internal/repository/db"
	"gomarket/internal/sentiment"
	"gomarket/internal/server"
	"gomarket/internal/service"
	"gomarket/internal/upload"
)

const sessionSweepTick = 1 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)

	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	uploads, err := upload.NewStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatalw("failed to init upload dir", "err", err)
	}

	var annotator sentiment.Annotator
	if cfg.Sentiment.Enabled {
		annotator = sentiment.NewHTTPAnnotator(cfg.Sentiment.Endpoint, cfg.Sentiment.Token)
		log.Infow("sentiment annotator enabled", "endpoint", cfg.Sentiment.Endpoint)
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Options{
		SessionTTL: cfg.Session.TTL,
		Annotator:  annotator,
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log, cfg, uploads)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// expire stale sessions in the background
	go services.Sessions.Run(ctx, sessionSweepTick)

	srv := &server.Server{}
	go func() {
		log.Infow("server listening", "port", cfg.Port)
		if err := srv.Run(cfg.Port, apiHandler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	waitForShutdown(cancel, srv, log)
}

// waitForShutdown blocks on termination signals and drains the server.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
