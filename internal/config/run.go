package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/spf13/viper"
)

// Run describes one preparation run: the synthetic event and the processing
// parameters.
type Run struct {
	Event  domain.Event  `mapstructure:"event"`
	Params domain.Params `mapstructure:"processing"`
}

// LoadRun reads the YAML run file at path. A missing file is not an error;
// every key then comes from defaults and PREP_-prefixed environment variables,
// e.g. PREP_EVENT_LATITUDE or PREP_PROCESSING_GAIN, which also override values
// found in the file.
func LoadRun(path string) (*Run, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setRunDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read run file %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat run file %s: %w", path, err)
		}
	}

	var run Run
	if err := v.Unmarshal(&run); err != nil {
		return nil, fmt.Errorf("decode run file: %w", err)
	}

	if !v.IsSet("event.latitude") || !v.IsSet("event.longitude") {
		return nil, errors.New("event.latitude and event.longitude are required (run file or PREP_EVENT_LATITUDE/PREP_EVENT_LONGITUDE)")
	}
	if run.Event.Latitude < -90 || run.Event.Latitude > 90 {
		return nil, fmt.Errorf("event.latitude %g out of range", run.Event.Latitude)
	}
	if err := run.Params.Validate(); err != nil {
		return nil, fmt.Errorf("processing: %w", err)
	}

	return &run, nil
}

func setRunDefaults(v *viper.Viper) {
	p := domain.DefaultParams()
	// No defaults for the epicentre; bind so PREP_EVENT_* reaches Unmarshal.
	_ = v.BindEnv("event.latitude")
	_ = v.BindEnv("event.longitude")
	v.SetDefault("event.magnitude", 0.0)
	v.SetDefault("event.depth_km", 0.0)
	v.SetDefault("processing.threshold", p.Threshold)
	v.SetDefault("processing.noise_min", p.NoiseMin)
	v.SetDefault("processing.noise_max", p.NoiseMax)
	v.SetDefault("processing.gain", p.Gain)
	v.SetDefault("processing.pad_seconds", p.PadSeconds)
	v.SetDefault("processing.sample_rate", p.SampleRate)
	v.SetDefault("processing.network", p.Network)
	v.SetDefault("processing.strict_channels", p.StrictChannels)
	v.SetDefault("processing.seed", p.Seed)
	v.SetDefault("processing.workers", p.Workers)
}
