package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResample_Length(t *testing.T) {
	samples := make([]float64, 1000)

	out, err := Resample(samples, 1/67.31, 40)
	require.NoError(t, err)
	assert.Len(t, out, 594)
}

func TestResample_Constant(t *testing.T) {
	samples := make([]float64, 300)
	for i := range samples {
		samples[i] = 2.5
	}

	out, err := Resample(samples, 0.01, 40)
	require.NoError(t, err)
	require.Len(t, out, 120)
	for _, v := range out {
		assert.InDelta(t, 2.5, v, 1e-9)
	}
}

func TestResample_PeriodicSine(t *testing.T) {
	// 10 full cycles over 25 s, downsampled 40 Hz -> 20 Hz.
	const n = 1000
	delta := 0.025
	freq := 10 / (n * delta)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) * delta)
	}

	out, err := Resample(samples, delta, 20)
	require.NoError(t, err)
	require.Len(t, out, 500)
	for k, v := range out {
		want := math.Sin(2 * math.Pi * freq * float64(k) * 0.05)
		assert.InDelta(t, want, v, 1e-2, "sample %d", k)
	}
}

func TestResample_Errors(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		delta   float64
		rate    float64
	}{
		{"too short", []float64{1}, 0.01, 40},
		{"zero delta", []float64{1, 2, 3}, 0, 40},
		{"zero rate", []float64{1, 2, 3}, 0.01, 0},
		{"collapses below two samples", []float64{1, 2, 3}, 0.01, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resample(tt.samples, tt.delta, tt.rate)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestGradient(t *testing.T) {
	t.Run("linear ramp", func(t *testing.T) {
		h := 0.025
		y := make([]float64, 10)
		for i := range y {
			y[i] = 3 * float64(i) * h
		}
		g, err := Gradient(y, h)
		require.NoError(t, err)
		for _, v := range g {
			assert.InDelta(t, 3.0, v, 1e-9)
		}
	})

	t.Run("quadratic interior exact, edges one-sided", func(t *testing.T) {
		y := []float64{0, 1, 4, 9, 16}
		g, err := Gradient(y, 1)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 4, 6, 7}, g)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := Gradient([]float64{1}, 1)
		assert.ErrorIs(t, err, ErrMalformedInput)
	})
}
