package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/couchcryptid/seismic-prep/internal/observability"
)

// MetadataBuilder derives per-station metadata from the raw vertical traces
// and writes each decorated trace to the intermediate directory.
// It implements MetadataStage.
type MetadataBuilder struct {
	directory *domain.Directory
	geodesic  domain.Geodesic
	sink      IntermediateWriter
	event     domain.Event
	params    domain.Params
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewMetadataBuilder creates a MetadataBuilder for one event.
func NewMetadataBuilder(directory *domain.Directory, geodesic domain.Geodesic, sink IntermediateWriter, event domain.Event, params domain.Params, logger *slog.Logger, metrics *observability.Metrics) *MetadataBuilder {
	return &MetadataBuilder{
		directory: directory,
		geodesic:  geodesic,
		sink:      sink,
		event:     event,
		params:    params,
		logger:    logger,
		metrics:   metrics,
	}
}

// Build consumes the vertical traces in order and returns the metadata of
// every station that could be resolved. Per-trace failures are logged and
// skipped. Build fails only when the inputs are missing altogether or the
// context is cancelled.
func (b *MetadataBuilder) Build(ctx context.Context, traces iter.Seq2[*domain.Trace, error]) (domain.MetadataMap, error) {
	md := make(domain.MetadataMap)

	for t, readErr := range traces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if readErr != nil {
			if errors.Is(readErr, domain.ErrMissingResource) {
				return nil, readErr
			}
			b.logger.Warn("unreadable trace, skipping", "error", readErr)
			b.metrics.StationsSkipped.WithLabelValues("malformed").Inc()
			continue
		}
		b.metrics.TracesRead.WithLabelValues("metadata").Inc()

		if _, seen := md[t.Station]; seen {
			b.logger.Warn("station already described, keeping first trace", "station", t.Station, "path", t.Source)
			continue
		}

		m, err := b.Describe(t)
		if err != nil {
			b.logger.Warn("station skipped", "station", t.Station, "path", t.Source, "error", err)
			b.metrics.StationsSkipped.WithLabelValues(skipReason(err)).Inc()
			continue
		}

		path, err := b.sink.WriteIntermediate(t)
		if err != nil {
			b.logger.Warn("write decorated trace failed", "station", t.Station, "error", err)
			b.metrics.StationsSkipped.WithLabelValues("write").Inc()
			continue
		}

		md[t.Station] = m
		b.metrics.StationsResolved.Inc()
		b.logger.Debug("station described",
			"station", t.Station,
			"path", path,
			"distance_km", m.DistanceKm,
			"azimuth_deg", m.AzimuthDeg,
			"trigger_time_sec", m.TriggerTimeSec,
		)
	}

	return md, nil
}

// Describe computes the metadata for one vertical trace and decorates its
// header with the event geometry. Samples are not modified.
func (b *MetadataBuilder) Describe(t *domain.Trace) (domain.StationMetadata, error) {
	trigger := domain.DetectTrigger(t.Samples, b.params.Threshold, t.Delta)

	rec, err := b.directory.Lookup(t.Station)
	if err != nil {
		return domain.StationMetadata{}, err
	}

	g, err := b.geodesic.Inverse(b.event.Latitude, b.event.Longitude, rec.Latitude, rec.Longitude)
	if err != nil {
		return domain.StationMetadata{}, fmt.Errorf("geodesic to %s: %w", t.Station, err)
	}

	m := domain.NewStationMetadata(rec, g.DistanceM, g.Azimuth, trigger)
	t.SetGeometry(m.DistanceKm*1000, m.AzimuthDeg, domain.Round2(g.BackAzimuth))
	t.SetLocations(b.event, rec)
	return m, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrStationNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrMalformedInput):
		return "malformed"
	default:
		return "geodesic"
	}
}
