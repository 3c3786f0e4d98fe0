package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "traces/stations.d", cfg.StationsFile)
	assert.Equal(t, "traces", cfg.InputDir)
	assert.Equal(t, "traces/decorated", cfg.IntermediateDir)
	assert.Equal(t, "new_traces", cfg.OutputDir)
	assert.Equal(t, "run.yaml", cfg.RunFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "ellipsoid", cfg.GeodesicModel)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "station-metadata", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("STATIONS_FILE", "/data/stations.d")
	t.Setenv("INPUT_DIR", "/data/raw")
	t.Setenv("INTERMEDIATE_DIR", "/data/decorated")
	t.Setenv("OUTPUT_DIR", "/data/out")
	t.Setenv("RUN_FILE", "/data/event.yaml")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/prep.prom")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("GEODESIC_MODEL", "sphere")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "eew-stations")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/stations.d", cfg.StationsFile)
	assert.Equal(t, "/data/raw", cfg.InputDir)
	assert.Equal(t, "/data/decorated", cfg.IntermediateDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, "/data/event.yaml", cfg.RunFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "/var/lib/node_exporter/prep.prom", cfg.MetricsTextfile)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "sphere", cfg.GeodesicModel)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "eew-stations", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidGeodesicModel(t *testing.T) {
	t.Setenv("GEODESIC_MODEL", "flat")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEODESIC_MODEL")
}

func TestLoad_OutputOverlapsInput(t *testing.T) {
	t.Setenv("INPUT_DIR", "traces")
	t.Setenv("OUTPUT_DIR", "traces")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_DIR")
}

func TestLoadRun_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
event:
  latitude: 31.0
  longitude: 35.0
  magnitude: 6.2
  depth_km: 10
processing:
  gain: 1.0e6
  pad_seconds: 60
  seed: 42
  workers: 4
`), 0o600))

	run, err := LoadRun(path)
	require.NoError(t, err)

	assert.Equal(t, domain.Event{Latitude: 31, Longitude: 35, Magnitude: 6.2, DepthKm: 10}, run.Event)

	want := domain.DefaultParams()
	want.Gain = 1e6
	want.PadSeconds = 60
	want.Seed = 42
	want.Workers = 4
	assert.Equal(t, want, run.Params)
}

func TestLoadRun_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("event:\n  latitude: 31.0\n  longitude: 35.0\n"), 0o600))
	t.Setenv("PREP_PROCESSING_SAMPLE_RATE", "50")
	t.Setenv("PREP_EVENT_LATITUDE", "30.5")

	run, err := LoadRun(path)
	require.NoError(t, err)
	assert.Equal(t, 50.0, run.Params.SampleRate)
	assert.Equal(t, 30.5, run.Event.Latitude)
}

func TestLoadRun_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("PREP_EVENT_LATITUDE", "31")
	t.Setenv("PREP_EVENT_LONGITUDE", "35")

	run, err := LoadRun(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 31.0, run.Event.Latitude)
	assert.Equal(t, domain.DefaultParams(), run.Params)
}

func TestLoadRun_EventRequired(t *testing.T) {
	_, err := LoadRun("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event.latitude")
}

func TestLoadRun_InvalidParams(t *testing.T) {
	t.Setenv("PREP_EVENT_LATITUDE", "31")
	t.Setenv("PREP_EVENT_LONGITUDE", "35")
	t.Setenv("PREP_PROCESSING_NOISE_MIN", "1")

	_, err := LoadRun("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noise interval")
}
