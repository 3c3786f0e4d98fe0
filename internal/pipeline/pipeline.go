package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/couchcryptid/seismic-prep/internal/observability"
	"github.com/sourcegraph/conc/pool"
)

// TraceSource lists the raw traces of a run.
type TraceSource interface {
	Verticals() iter.Seq2[*domain.Trace, error]
	All() iter.Seq2[*domain.Trace, error]
}

// IntermediateWriter persists decorated vertical traces.
type IntermediateWriter interface {
	WriteIntermediate(t *domain.Trace) (string, error)
}

// FinalWriter persists transformed traces.
type FinalWriter interface {
	WriteFinal(t *domain.Trace) (string, error)
}

// MetadataStage builds the station metadata map from the vertical traces.
type MetadataStage interface {
	Build(ctx context.Context, traces iter.Seq2[*domain.Trace, error]) (domain.MetadataMap, error)
}

// Transformer converts one raw trace into its final form.
type Transformer interface {
	Transform(t *domain.Trace, md domain.StationMetadata, noise domain.NoiseSource) (*domain.Trace, error)
}

// MetadataNotifier announces the completed metadata map to downstream systems.
type MetadataNotifier interface {
	PublishMetadata(ctx context.Context, md domain.MetadataMap) error
}

// NoiseFactory returns the noise source for the job-th transform.
type NoiseFactory func(job int) domain.NoiseSource

// SeededNoise returns uniform noise sources over [NoiseMin, NoiseMax). With a
// non-zero seed, job i draws from seed+i so output does not depend on
// scheduling; with seed zero every job gets fresh randomness.
func SeededNoise(params domain.Params) NoiseFactory {
	return func(job int) domain.NoiseSource {
		seed := params.Seed
		if seed != 0 {
			seed += uint64(job)
		}
		return domain.NewUniformNoise(params.NoiseMin, params.NoiseMax, seed)
	}
}

// Stages groups the collaborators a Pipeline drives. Notifier and Noise are
// optional.
type Stages struct {
	Source      TraceSource
	Sink        FinalWriter
	Metadata    MetadataStage
	Transformer Transformer
	Notifier    MetadataNotifier
	Noise       NoiseFactory
}

// Summary reports the outcome of a run.
type Summary struct {
	Metadata    domain.MetadataMap
	Transformed int
	Skipped     int
	Failed      int
}

// Pipeline runs the two passes of a preparation run: the metadata pass over
// the vertical traces, then the transform pass over every component. The
// transform pass starts only after the metadata map is complete.
type Pipeline struct {
	stages  Stages
	params  domain.Params
	logger  *slog.Logger
	metrics *observability.Metrics

	ready    atomic.Bool
	mu       sync.RWMutex
	metadata domain.MetadataMap
}

// New creates a Pipeline with the given stages and observability.
func New(stages Stages, params domain.Params, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if stages.Noise == nil {
		stages.Noise = SeededNoise(params)
	}
	return &Pipeline{
		stages:  stages,
		params:  params,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once the metadata pass has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("station metadata not built yet")
	}
	return nil
}

// Metadata returns a copy of the metadata map and whether it is complete.
func (p *Pipeline) Metadata() (domain.MetadataMap, bool) {
	if !p.ready.Load() {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.metadata), true
}

// Run executes both passes. It returns an error only for failures that abort
// the whole run: missing inputs or cancellation.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	p.logger.Info("pipeline started", "workers", p.params.Workers, "seeded", p.params.Seed != 0)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	start := time.Now()
	md, err := p.stages.Metadata.Build(ctx, p.stages.Source.Verticals())
	if err != nil {
		return Summary{}, fmt.Errorf("metadata pass: %w", err)
	}
	p.metrics.PhaseDuration.WithLabelValues("metadata").Observe(time.Since(start).Seconds())

	p.mu.Lock()
	p.metadata = md
	p.mu.Unlock()
	p.ready.Store(true)
	p.metrics.MetadataReady.Set(1)
	p.logMetadata(md)
	p.notify(ctx, md)

	start = time.Now()
	summary, err := p.transformAll(ctx, md)
	summary.Metadata = maps.Clone(md)
	if err != nil {
		return summary, fmt.Errorf("transform pass: %w", err)
	}
	p.metrics.PhaseDuration.WithLabelValues("transform").Observe(time.Since(start).Seconds())

	p.logger.Info("pipeline finished",
		"stations", len(md),
		"transformed", summary.Transformed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

// transformAll fans the component traces out to a bounded worker pool. Each
// job owns its trace and its noise source.
func (p *Pipeline) transformAll(ctx context.Context, md domain.MetadataMap) (Summary, error) {
	var transformed, failed atomic.Int64
	skipped := 0

	workers := pool.New().WithMaxGoroutines(max(p.params.Workers, 1))
	job := 0

	for t, readErr := range p.stages.Source.All() {
		if ctx.Err() != nil {
			break
		}
		if readErr != nil {
			if errors.Is(readErr, domain.ErrMissingResource) {
				workers.Wait()
				return Summary{}, readErr
			}
			p.logger.Warn("unreadable trace, skipping", "error", readErr)
			p.metrics.TransformErrors.Inc()
			failed.Add(1)
			continue
		}
		p.metrics.TracesRead.WithLabelValues("transform").Inc()

		stationMD, ok := md[t.Station]
		if !ok {
			p.logger.Warn("no metadata for station, skipping trace", "station", t.Station, "channel", t.Channel, "path", t.Source)
			p.metrics.StationsSkipped.WithLabelValues("no_metadata").Inc()
			skipped++
			continue
		}

		noise := p.stages.Noise(job)
		job++
		workers.Go(func() {
			if p.transformOne(t, stationMD, noise) {
				transformed.Add(1)
			} else {
				failed.Add(1)
			}
		})
	}
	workers.Wait()

	summary := Summary{
		Transformed: int(transformed.Load()),
		Skipped:     skipped,
		Failed:      int(failed.Load()),
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (p *Pipeline) transformOne(t *domain.Trace, md domain.StationMetadata, noise domain.NoiseSource) bool {
	raw := t.Channel
	out, err := p.stages.Transformer.Transform(t, md, noise)
	if err != nil {
		p.logger.Warn("transform failed, skipping trace", "station", t.Station, "channel", raw, "path", t.Source, "error", err)
		p.metrics.TransformErrors.Inc()
		return false
	}
	path, err := p.stages.Sink.WriteFinal(out)
	if err != nil {
		p.logger.Warn("write trace failed", "station", out.Station, "channel", out.Channel, "error", err)
		p.metrics.TransformErrors.Inc()
		return false
	}
	p.metrics.TracesTransformed.WithLabelValues(out.Channel).Inc()
	p.logger.Debug("trace written", "station", out.Station, "channel", out.Channel, "path", path)
	return true
}

// notify publishes the metadata map. A failure is logged and does not stop
// the run.
func (p *Pipeline) notify(ctx context.Context, md domain.MetadataMap) {
	if p.stages.Notifier == nil || len(md) == 0 {
		return
	}
	if err := p.stages.Notifier.PublishMetadata(ctx, md); err != nil {
		p.logger.Warn("publish station metadata failed", "error", err, "stations", len(md))
	}
}

func (p *Pipeline) logMetadata(md domain.MetadataMap) {
	for _, code := range slices.Sorted(maps.Keys(md)) {
		m := md[code]
		p.logger.Info("station metadata",
			"station", code,
			"latitude", m.Latitude,
			"longitude", m.Longitude,
			"distance_km", m.DistanceKm,
			"azimuth_deg", m.AzimuthDeg,
			"trigger_time_sec", m.TriggerTimeSec,
		)
	}
}
