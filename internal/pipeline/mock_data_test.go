package pipeline_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/seismic-prep/internal/adapter/geodesy"
	"github.com/couchcryptid/seismic-prep/internal/adapter/sacfile"
	"github.com/couchcryptid/seismic-prep/internal/config"
	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/couchcryptid/seismic-prep/internal/observability"
	"github.com/couchcryptid/seismic-prep/internal/pipeline"
	"github.com/couchcryptid/seismic-prep/internal/synth"
	"github.com/stretchr/testify/require"
)

// Scenario used across the pipeline tests: one station 0.5 degrees north of
// the event, 1000 samples at 67.31 Hz, onset at sample 500.
const (
	scenarioRate    = 67.31
	scenarioSamples = 1000
	scenarioOnset   = 500

	// int(1000 × 40 / 67.31) resampled samples plus a 120 s pad at 40 Hz.
	scenarioResampled = 594
	scenarioPad       = 4800
)

var scenarioEvent = domain.Event{Latitude: 31.0, Longitude: 35.0, Magnitude: 5.8, DepthKm: 10}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

// writeScenario generates raw traces for the given stations into a fresh
// input directory and returns a config pointing at it. Every station gets
// its onset at scenarioOnset.
func writeScenario(t *testing.T, stations ...synth.Station) *config.Config {
	t.Helper()
	if len(stations) == 0 {
		stations = []synth.Station{{Code: "STA1", Latitude: 31.5, Longitude: 35.0}}
	}
	for i := range stations {
		stations[i].Arrival = scenarioOnset
	}

	root := t.TempDir()
	cfg := &config.Config{
		InputDir:        filepath.Join(root, "traces"),
		IntermediateDir: filepath.Join(root, "traces", "decorated"),
		OutputDir:       filepath.Join(root, "new_traces"),
	}
	cfg.StationsFile = filepath.Join(cfg.InputDir, synth.StationsFile)

	gen := synth.DefaultConfig()
	gen.Event = scenarioEvent
	gen.Stations = stations
	gen.SampleRate = scenarioRate
	gen.Samples = scenarioSamples
	gen.Background = 0

	_, err := synth.Generate(cfg.InputDir, gen, geodesy.NewWGS84())
	require.NoError(t, err)
	return cfg
}

// withOutput returns a copy of cfg writing to fresh intermediate and output
// directories, so several runs can share one input set.
func withOutput(t *testing.T, cfg *config.Config) *config.Config {
	t.Helper()
	root := t.TempDir()
	c := *cfg
	c.IntermediateDir = filepath.Join(root, "decorated")
	c.OutputDir = filepath.Join(root, "new_traces")
	return &c
}

// newScenarioPipeline wires the real store, geodesic and stages for cfg.
func newScenarioPipeline(t *testing.T, cfg *config.Config, params domain.Params, notifier pipeline.MetadataNotifier) *pipeline.Pipeline {
	t.Helper()
	logger := discardLogger()
	metrics := newTestMetrics()

	dir, err := domain.LoadDirectory(cfg.StationsFile)
	require.NoError(t, err)

	store := sacfile.NewStore(cfg, logger)
	builder := pipeline.NewMetadataBuilder(dir, geodesy.NewWGS84(), store, scenarioEvent, params, logger, metrics)
	return pipeline.New(pipeline.Stages{
		Source:      store,
		Sink:        store,
		Metadata:    builder,
		Transformer: pipeline.NewTransformer(params, logger),
		Notifier:    notifier,
	}, params, logger, metrics)
}

func readOutput(t *testing.T, cfg *config.Config, name string) *domain.Trace {
	t.Helper()
	tr, err := sacfile.ReadTrace(filepath.Join(cfg.OutputDir, name))
	require.NoError(t, err)
	return tr
}
