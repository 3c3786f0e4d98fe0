package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/seismic-prep/internal/domain"
)

// TraceTransformer implements Transformer by running the domain stages in
// order: relabel, resample and differentiate, pre-trigger fill, leading pad,
// gain.
type TraceTransformer struct {
	params domain.Params
	logger *slog.Logger
}

// NewTransformer creates a TraceTransformer for the given parameters.
func NewTransformer(params domain.Params, logger *slog.Logger) *TraceTransformer {
	return &TraceTransformer{
		params: params,
		logger: logger,
	}
}

// Transform mutates t in place and returns it.
func (x *TraceTransformer) Transform(t *domain.Trace, md domain.StationMetadata, noise domain.NoiseSource) (*domain.Trace, error) {
	if err := domain.Relabel(t, x.params.Network, x.params.StrictChannels); err != nil {
		return nil, err
	}
	if err := domain.ResampleAndDifferentiate(t, x.params.SampleRate); err != nil {
		return nil, err
	}
	filled := domain.FillPreTrigger(t, md.TriggerTimeSec, noise)
	domain.PadLeadingNoise(t, x.params.SampleRate, x.params.PadSeconds, noise)
	domain.ApplyGain(t, x.params.Gain)

	x.logger.Debug("trace transformed",
		"station", t.Station,
		"channel", t.Channel,
		"npts", t.Len(),
		"pre_trigger_samples", filled,
	)
	return t, nil
}
