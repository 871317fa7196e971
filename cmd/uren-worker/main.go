package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uren/internal/amqp"
	"uren/internal/cli"
	"uren/internal/fixture"
	"uren/internal/jortt"
	"uren/internal/overview"
	"uren/internal/receipts"
	ports "uren/internal/sheets"
	gsheet "uren/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting uren-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// Backend for the export pipeline. Receipt downloads need the live
	// API regardless; the fixture backend has no expense listing.
	var (
		lister     overview.ProjectLister
		stats      overview.StatsReader
		downloader *receipts.Downloader
	)
	switch cfg.DataBackend {
	case "fixture":
		store := fixture.New(cfg.FixtureDir)
		lister, stats = store, store
		logger.Info("Initialized fixture backend", "dir", cfg.FixtureDir)
	default:
		client := jortt.NewClient(cfg.JorttBaseURL, cfg.JorttSession, cfg.HTTPTimeout)
		lister, stats = client, client
		downloader = receipts.NewDownloader(client, cfg.ReceiptDir, nil)
		logger.Info("Initialized jortt backend", "base_url", cfg.JorttBaseURL)
	}

	svc := overview.NewService(lister, stats, nil)

	// Spreadsheet export is optional
	var exporter ports.OverviewExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := func(msg *amqp.JobMessage) error {
		switch msg.Kind {
		case amqp.JobKindReceipts:
			if downloader == nil {
				logger.Error("Dropping receipt job, no live backend configured", "year", msg.Year)
				return nil
			}
			res, err := downloader.DownloadYear(ctx, msg.Year)
			if err != nil {
				return err
			}
			logger.Info("Receipt download finished",
				"year", msg.Year,
				"pages", res.Pages,
				"downloaded", res.Downloaded,
				"missing", res.Missing)
			return nil
		case amqp.JobKindExport:
			if exporter == nil {
				logger.Error("Dropping export job, no spreadsheet configured",
					"year", msg.Year, "month", msg.Month)
				return nil
			}
			anchor := time.Date(msg.Year, time.Month(msg.Month), 1, 0, 0, 0, 0, time.Local)
			table, err := svc.RenderMonth(ctx, anchor)
			if err != nil {
				return err
			}
			ref, err := exporter.ExportMonth(ctx, table)
			if err != nil {
				return err
			}
			logger.Info("Month table exported", "year", msg.Year, "month", msg.Month, "range", ref)
			return nil
		default:
			logger.Error("Dropping job of unknown kind", "kind", msg.Kind)
			return nil
		}
	}

	go func() {
		err := amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, handler)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Job consumption stopped", "error", err)
		}
		cancel()
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
