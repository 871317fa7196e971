package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uren/internal/amqp"
	"uren/internal/cli"
	"uren/internal/fixture"
	apphttp "uren/internal/http"
	"uren/internal/jortt"
	"uren/internal/overview"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Choose data backend: the live invoicing API or recorded fixtures.
	var (
		lister overview.ProjectLister
		stats  overview.StatsReader
	)
	switch cfg.DataBackend {
	case "fixture":
		store := fixture.New(cfg.FixtureDir)
		lister, stats = store, store
		logger.Info("Initialized fixture backend", "dir", cfg.FixtureDir)
	default:
		client := jortt.NewClient(cfg.JorttBaseURL, cfg.JorttSession, cfg.HTTPTimeout)
		lister, stats = client, client
		logger.Info("Initialized jortt backend", "base_url", cfg.JorttBaseURL)
	}

	svc := overview.NewService(lister, stats, nil)

	rates := cli.InitRateStore(logger, cfg.SQLiteDBPath)
	defer rates.Close()

	// Job publisher is optional: without a broker the trigger endpoints
	// answer 503 but the overview still works.
	var jobs apphttp.JobPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, job triggers disabled", "error", err)
		} else {
			defer amqpClient.Close()
			jobs = amqpClient
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, lister, rates, jobs)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting uren server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
