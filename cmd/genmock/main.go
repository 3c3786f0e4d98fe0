// Command genmock writes a synthetic simulation output set: a station table,
// one .x/.y/.z SAC trace triple per station with a damped arrival delayed by
// the event distance, and a run file for the same event. The result can be
// fed straight to prepcode.
//
// Usage:
//
//	go run ./cmd/genmock -out traces -run-file run.yaml -seed 1
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/couchcryptid/seismic-prep/internal/adapter/geodesy"
	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/couchcryptid/seismic-prep/internal/synth"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/viper"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	def := synth.DefaultConfig()

	out := flag.String("out", "traces", "directory for stations.d and the raw traces")
	runFile := flag.String("run-file", "run.yaml", "path of the run file to write; empty to skip")
	samples := flag.Int("samples", def.Samples, "samples per trace")
	rate := flag.Float64("rate", def.SampleRate, "sampling rate, Hz")
	velocity := flag.Float64("velocity", def.Velocity, "apparent P velocity, km/s")
	amplitude := flag.Float64("amplitude", def.Amplitude, "peak arrival velocity, m/s")
	background := flag.Float64("background", def.Background, "background noise half-width, m/s")
	seed := flag.Uint64("seed", def.Seed, "background noise seed; 0 for random")
	model := flag.String("geodesic", geodesy.ModelEllipsoid, "geodesic model: ellipsoid or sphere")
	flag.Parse()

	cfg := def
	cfg.Samples = *samples
	cfg.SampleRate = *rate
	cfg.Velocity = *velocity
	cfg.Amplitude = *amplitude
	cfg.Background = *background
	cfg.Seed = *seed

	geo, err := geodesy.New(*model)
	if err != nil {
		return err
	}

	// Fixed clock for reproducible KDATRD stamps.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	arrivals, err := synth.Generate(*out, cfg, geo)
	if err != nil {
		return fmt.Errorf("generate traces: %w", err)
	}
	for _, a := range arrivals {
		log.Printf("%s: %.2f km, onset sample %d (%.2f s)", a.Station, a.DistanceKm, a.Index, a.TimeSec)
	}
	log.Printf("wrote %d stations to %s", len(arrivals), *out)

	if *runFile != "" {
		if err := writeRunFile(*runFile, cfg.Event); err != nil {
			return err
		}
		log.Printf("wrote run file %s", *runFile)
	}
	return nil
}

// writeRunFile records the event so prepcode picks up the same epicentre.
func writeRunFile(path string, ev domain.Event) error {
	p := domain.DefaultParams()
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("event.latitude", ev.Latitude)
	v.Set("event.longitude", ev.Longitude)
	v.Set("event.magnitude", ev.Magnitude)
	v.Set("event.depth_km", ev.DepthKm)
	v.Set("processing.sample_rate", p.SampleRate)
	v.Set("processing.pad_seconds", p.PadSeconds)
	v.Set("processing.gain", p.Gain)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write run file: %w", err)
	}
	return nil
}
