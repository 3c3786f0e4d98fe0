package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// Resample changes the sampling rate of samples from 1/delta to rate in the
// frequency domain. The spectrum is tapered with a periodic Hann window
// centred on zero frequency, linearly interpolated onto the output frequency
// grid and inverted at the new length int(n × rate × delta).
func Resample(samples []float64, delta, rate float64) ([]float64, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: resample needs at least 2 samples, got %d", ErrMalformedInput, n)
	}
	if delta <= 0 || rate <= 0 {
		return nil, fmt.Errorf("%w: resample delta %g rate %g", ErrMalformedInput, delta, rate)
	}

	factor := (1 / delta) / rate
	num := int(float64(n) / factor)
	if num < 2 {
		return nil, fmt.Errorf("%w: resampling %d samples to %g Hz leaves %d", ErrMalformedInput, n, rate, num)
	}

	spectrum := fourier.NewFFT(n).Coefficients(nil, samples)
	half := len(spectrum)
	shift := n / 2
	freqs := make([]float64, half)
	re := make([]float64, half)
	im := make([]float64, half)
	df := 1 / (float64(n) * delta)
	for i, c := range spectrum {
		k := (i + shift) % n
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(k)/float64(n))
		freqs[i] = df * float64(i)
		re[i] = real(c) * w
		im[i] = imag(c) * w
	}

	var fitRe, fitIm interp.PiecewiseLinear
	if err := fitRe.Fit(freqs, re); err != nil {
		return nil, fmt.Errorf("fit spectrum: %w", err)
	}
	if err := fitIm.Fit(freqs, im); err != nil {
		return nil, fmt.Errorf("fit spectrum: %w", err)
	}

	dOut := rate / float64(num)
	out := make([]complex128, num/2+1)
	for k := range out {
		f := dOut * float64(k)
		out[k] = complex(fitRe.Predict(f), fitIm.Predict(f))
	}

	resampled := fourier.NewFFT(num).Sequence(nil, out)
	// Sequence is unnormalised: 1/num for the inverse, num/n for the length change.
	floats.Scale(1/float64(n), resampled)
	return resampled, nil
}

// Gradient returns the derivative of y sampled at spacing h: central
// differences inside, one-sided first differences at both ends.
func Gradient(y []float64, h float64) ([]float64, error) {
	n := len(y)
	if n < 2 {
		return nil, fmt.Errorf("%w: gradient needs at least 2 samples, got %d", ErrMalformedInput, n)
	}
	out := make([]float64, n)
	out[0] = (y[1] - y[0]) / h
	out[n-1] = (y[n-1] - y[n-2]) / h
	for i := 1; i < n-1; i++ {
		out[i] = (y[i+1] - y[i-1]) / (2 * h)
	}
	return out, nil
}

func padLength(rate, seconds float64) int {
	return int(math.Round(rate * seconds))
}
