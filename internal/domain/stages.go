package domain

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Relabel sets the network code and maps simulation axes to network channel
// codes: X→BNN, Y→BNE, anything else→BNZ. In strict mode a channel outside
// X, Y and Z is rejected with ErrUnknownChannel and the trace is left as is.
func Relabel(t *Trace, network string, strict bool) error {
	raw := strings.ToUpper(strings.TrimSpace(t.Channel))

	var channel string
	switch raw {
	case RawNorth:
		channel = ChannelNorth
	case RawEast:
		channel = ChannelEast
	case RawDown:
		channel = ChannelVertical
	default:
		if strict {
			return fmt.Errorf("%w: %q on station %s", ErrUnknownChannel, t.Channel, t.Station)
		}
		channel = ChannelVertical
	}

	t.Network = network
	t.Channel = channel
	return nil
}

// ResampleAndDifferentiate resamples the trace to rate and converts velocity
// to acceleration by differentiating at the new sampling interval.
func ResampleAndDifferentiate(t *Trace, rate float64) error {
	resampled, err := Resample(t.Samples, t.Delta, rate)
	if err != nil {
		return fmt.Errorf("resample %s.%s: %w", t.Station, t.Channel, err)
	}
	t.Delta = 1 / rate

	acc, err := Gradient(resampled, t.Delta)
	if err != nil {
		return fmt.Errorf("differentiate %s.%s: %w", t.Station, t.Channel, err)
	}
	t.Samples = acc
	return nil
}

// FillPreTrigger overwrites every sample before triggerSec with noise and
// returns how many samples were replaced.
func FillPreTrigger(t *Trace, triggerSec float64, noise NoiseSource) int {
	if t.Delta <= 0 || triggerSec <= 0 {
		return 0
	}
	n := int(triggerSec / t.Delta)
	n = min(n, len(t.Samples))
	noise.Fill(t.Samples[:n])
	return n
}

// PadLeadingNoise prepends rate × seconds noise samples, extending the trace
// duration by seconds.
func PadLeadingNoise(t *Trace, rate, seconds float64, noise NoiseSource) {
	n := padLength(rate, seconds)
	if n <= 0 {
		return
	}
	padded := make([]float64, n, n+len(t.Samples))
	noise.Fill(padded)
	t.Samples = append(padded, t.Samples...)
}

// ApplyGain multiplies every sample by gain.
func ApplyGain(t *Trace, gain float64) {
	floats.Scale(gain, t.Samples)
}
