package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds service settings, populated from environment variables and an
// optional .env file.
type Config struct {
	StationsFile    string
	InputDir        string
	IntermediateDir string
	OutputDir       string
	RunFile         string

	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	MetricsTextfile string
	ShutdownTimeout time.Duration

	GeodesicModel string

	// Kafka station announcements.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where
// unset. Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		StationsFile:    sharedcfg.EnvOrDefault("STATIONS_FILE", "traces/stations.d"),
		InputDir:        sharedcfg.EnvOrDefault("INPUT_DIR", "traces"),
		IntermediateDir: sharedcfg.EnvOrDefault("INTERMEDIATE_DIR", "traces/decorated"),
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "new_traces"),
		RunFile:         sharedcfg.EnvOrDefault("RUN_FILE", "run.yaml"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		ShutdownTimeout: shutdownTimeout,
		GeodesicModel:   sharedcfg.EnvOrDefault("GEODESIC_MODEL", "ellipsoid"),
		KafkaEnabled:    os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "station-metadata"),
	}

	if cfg.InputDir == cfg.OutputDir || cfg.IntermediateDir == cfg.OutputDir {
		return nil, errors.New("OUTPUT_DIR must differ from INPUT_DIR and INTERMEDIATE_DIR")
	}
	if cfg.GeodesicModel != "ellipsoid" && cfg.GeodesicModel != "sphere" {
		return nil, fmt.Errorf("invalid GEODESIC_MODEL %q", cfg.GeodesicModel)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}
