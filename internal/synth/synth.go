// Package synth generates synthetic simulation output: a station table and
// one three-component set of raw velocity traces per station, with a damped
// arrival delayed by the source-receiver distance.
package synth

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/seismic-prep/internal/adapter/sacfile"
	"github.com/couchcryptid/seismic-prep/internal/domain"
)

// StationsFile is the station table name written next to the traces.
const StationsFile = "stations.d"

// Station is a receiver to simulate. A positive Arrival pins the first
// non-background sample instead of deriving it from distance.
type Station struct {
	Code      string
	Latitude  float64
	Longitude float64
	Arrival   int
}

// Config describes a synthetic data set.
type Config struct {
	Event      domain.Event
	Stations   []Station
	SampleRate float64 // Hz
	Samples    int     // per trace
	Velocity   float64 // apparent P velocity, km/s
	Amplitude  float64 // peak arrival velocity, m/s
	Frequency  float64 // arrival frequency, Hz
	Decay      float64 // arrival e-folding time, s
	Background float64 // half-width of the uniform background, m/s; 0 for silence
	Seed       uint64
}

// DefaultConfig returns a small Dead Sea rift scenario sampled at 67.31 Hz.
func DefaultConfig() Config {
	return Config{
		Event: domain.Event{Latitude: 31.0, Longitude: 35.0, Magnitude: 5.8, DepthKm: 10},
		Stations: []Station{
			{Code: "STA1", Latitude: 31.5, Longitude: 35.0},
			{Code: "STA2", Latitude: 31.2, Longitude: 35.4},
			{Code: "STA3", Latitude: 30.6, Longitude: 34.8},
			{Code: "STA4", Latitude: 32.1, Longitude: 35.2},
		},
		SampleRate: 67.31,
		Samples:    2000,
		Velocity:   6.0,
		Amplitude:  1e-5,
		Frequency:  2.0,
		Decay:      2.0,
		Background: 1e-9,
		Seed:       1,
	}
}

// Validate checks the generator settings.
func (c Config) Validate() error {
	if len(c.Stations) == 0 {
		return errors.New("at least one station is required")
	}
	if c.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}
	if c.Samples < 2 {
		return errors.New("at least two samples are required")
	}
	if c.Velocity <= 0 {
		return errors.New("velocity must be positive")
	}
	if c.Background < 0 {
		return errors.New("background must not be negative")
	}
	return nil
}

// Arrival records where the synthetic onset was placed for a station.
type Arrival struct {
	Station    string
	DistanceKm float64
	Index      int
	TimeSec    float64
}

// Generate writes the station table and the .x/.y/.z traces into dir and
// returns the arrivals in station order.
func Generate(dir string, cfg Config, geo domain.Geodesic) ([]Arrival, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	if err := WriteStations(filepath.Join(dir, StationsFile), cfg.Stations); err != nil {
		return nil, err
	}

	delta := 1 / cfg.SampleRate
	var background domain.NoiseSource
	if cfg.Background > 0 {
		background = domain.NewUniformNoise(-cfg.Background, cfg.Background, cfg.Seed)
	}

	arrivals := make([]Arrival, 0, len(cfg.Stations))
	for _, st := range cfg.Stations {
		g, err := geo.Inverse(cfg.Event.Latitude, cfg.Event.Longitude, st.Latitude, st.Longitude)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", st.Code, err)
		}
		km := g.DistanceM / 1000

		idx := st.Arrival
		if idx <= 0 {
			idx = int(km / cfg.Velocity / delta)
		}
		idx = min(idx, cfg.Samples-1)

		// Horizontal energy splits by azimuth; the vertical carries the full pulse.
		rad := g.Azimuth * math.Pi / 180
		comps := []struct {
			name  string
			scale float64
		}{
			{"x", math.Cos(rad)},
			{"y", math.Sin(rad)},
			{"z", 1},
		}
		for _, c := range comps {
			samples := waveform(cfg, idx, c.scale, background)
			tr := domain.NewTrace(st.Code, strings.ToUpper(c.name), delta, samples)
			tr.SetLocations(cfg.Event, domain.StationRecord{Code: st.Code, Latitude: st.Latitude, Longitude: st.Longitude})
			if err := sacfile.WriteTrace(filepath.Join(dir, st.Code+"."+c.name), tr); err != nil {
				return nil, err
			}
		}

		arrivals = append(arrivals, Arrival{
			Station:    st.Code,
			DistanceKm: km,
			Index:      idx,
			TimeSec:    float64(idx) * delta,
		})
	}
	return arrivals, nil
}

// waveform returns background followed by a damped cosine starting at onset.
// The onset sample equals scale × amplitude.
func waveform(cfg Config, onset int, scale float64, background domain.NoiseSource) []float64 {
	out := make([]float64, cfg.Samples)
	if background != nil {
		background.Fill(out)
	}
	delta := 1 / cfg.SampleRate
	for i := onset; i < len(out); i++ {
		tt := float64(i-onset) * delta
		env := 1.0
		if cfg.Decay > 0 {
			env = math.Exp(-tt / cfg.Decay)
		}
		out[i] += scale * cfg.Amplitude * env * math.Cos(2*math.Pi*cfg.Frequency*tt)
	}
	return out
}

// WriteStations writes the station table in "lat lon code" format.
func WriteStations(path string, stations []Station) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create station table: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, st := range stations {
		fmt.Fprintf(w, "%.4f %.4f %s\n", st.Latitude, st.Longitude, st.Code)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write station table: %w", err)
	}
	return f.Close()
}
