package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/leadhub/lead-intake-service/internal/assign"
	"github.com/leadhub/lead-intake-service/internal/config"
	"github.com/leadhub/lead-intake-service/internal/repository/postgres"
	"github.com/leadhub/lead-intake-service/internal/service"
	myhttp "github.com/leadhub/lead-intake-service/internal/transport/http"
	"github.com/leadhub/lead-intake-service/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting lead-intake-service", slog.String("env", cfg.Env))

	errChan := make(chan error, 1)

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		err = db.DB().Close()
		if err != nil {
			errChan <- fmt.Errorf("db close failed: %v", err)
		}
	}()

	leadRepo := postgres.NewLeadRepository(db.DB(), log)
	sourceRepo := postgres.NewSourceRepository(db.DB(), log)
	operatorRepo := postgres.NewOperatorRepository(db.DB(), log)
	weightRepo := postgres.NewWeightRepository(db.DB(), log)
	contactRepo := postgres.NewContactRepository(db.DB(), log)

	picker := assign.NewPicker(rand.NewSource(time.Now().UnixNano()))

	leadService := service.NewLeadService(db.DB(), log, leadRepo, contactRepo)
	sourceService := service.NewSourceService(log, sourceRepo, operatorRepo, weightRepo)
	operatorService := service.NewOperatorService(log, operatorRepo)
	contactService := service.NewContactService(
		db.DB(), log, picker,
		leadRepo, sourceRepo, operatorRepo, weightRepo, contactRepo,
	)

	srv := myhttp.NewServer(log, leadService, sourceService, operatorService, contactService)
	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %v", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %v", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
