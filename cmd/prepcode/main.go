// Command prepcode prepares simulated seismograms for replay: it derives
// per-station metadata from the vertical traces, then relabels, resamples,
// differentiates, noise-fills, pads and rescales every component.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/seismic-prep/internal/adapter/geodesy"
	httpadapter "github.com/couchcryptid/seismic-prep/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/seismic-prep/internal/adapter/kafka"
	"github.com/couchcryptid/seismic-prep/internal/adapter/sacfile"
	"github.com/couchcryptid/seismic-prep/internal/config"
	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/couchcryptid/seismic-prep/internal/observability"
	"github.com/couchcryptid/seismic-prep/internal/pipeline"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger := observability.NewLogger(cfg).With("run_id", runID)
	if err := run(cfg, runID, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, runID string, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	r, err := config.LoadRun(cfg.RunFile)
	if err != nil {
		return fmt.Errorf("load run file: %w", err)
	}
	logger.Info("preparing traces", "event", r.Event.String(), "input_dir", cfg.InputDir, "output_dir", cfg.OutputDir)

	directory, err := domain.LoadDirectory(cfg.StationsFile)
	if err != nil {
		return err
	}
	for _, code := range directory.Duplicates() {
		logger.Warn("duplicate station code, keeping first entry", "station", code)
	}
	for _, line := range directory.Rejected() {
		logger.Warn("station line ignored", "line", line)
	}
	logger.Info("station directory loaded", "path", cfg.StationsFile, "stations", directory.Len())

	geo, err := geodesy.New(cfg.GeodesicModel)
	if err != nil {
		return err
	}

	store := sacfile.NewStore(cfg, logger)

	var notifier pipeline.MetadataNotifier
	if cfg.KafkaEnabled {
		publisher := kafkaadapter.NewStationPublisher(cfg, runID, r.Event, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		notifier = publisher
		logger.Info("station announcements enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(pipeline.Stages{
		Source:      store,
		Sink:        store,
		Metadata:    pipeline.NewMetadataBuilder(directory, geo, store, r.Event, r.Params, logger, metrics),
		Transformer: pipeline.NewTransformer(r.Params, logger),
		Notifier:    notifier,
	}, r.Params, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, metrics.Gatherer(), logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	summary, runErr := p.Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("write metrics textfile failed", "path", cfg.MetricsTextfile, "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	logger.Info("run complete",
		"stations", len(summary.Metadata),
		"transformed", summary.Transformed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return nil
}
