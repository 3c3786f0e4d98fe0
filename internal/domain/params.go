package domain

import (
	"errors"
	"fmt"
)

// Params controls trigger detection and every transform stage.
type Params struct {
	Threshold      float64 `mapstructure:"threshold"`
	NoiseMin       float64 `mapstructure:"noise_min"`
	NoiseMax       float64 `mapstructure:"noise_max"`
	Gain           float64 `mapstructure:"gain"`
	PadSeconds     float64 `mapstructure:"pad_seconds"`
	SampleRate     float64 `mapstructure:"sample_rate"`
	Network        string  `mapstructure:"network"`
	StrictChannels bool    `mapstructure:"strict_channels"`

	// Seed makes the noise reproducible. Zero draws fresh randomness.
	Seed uint64 `mapstructure:"seed"`

	// Workers bounds concurrent transforms in the second pass.
	Workers int `mapstructure:"workers"`
}

// DefaultParams returns the values used for EPIC replay.
func DefaultParams() Params {
	return Params{
		Threshold:  DefaultPvThreshold,
		NoiseMin:   -1e-6,
		NoiseMax:   1e-6,
		Gain:       1e7,
		PadSeconds: 120,
		SampleRate: 40,
		Network:    "IS",
		Workers:    1,
	}
}

// PadSamples returns the number of noise samples the pad stage prepends.
func (p Params) PadSamples() int {
	return padLength(p.SampleRate, p.PadSeconds)
}

// Validate checks the parameters for internal consistency.
func (p Params) Validate() error {
	if p.Threshold < 0 {
		return errors.New("threshold must not be negative")
	}
	if p.NoiseMin >= p.NoiseMax {
		return fmt.Errorf("noise interval [%g, %g) is empty", p.NoiseMin, p.NoiseMax)
	}
	if p.SampleRate <= 0 {
		return errors.New("sample_rate must be positive")
	}
	if p.PadSeconds < 0 {
		return errors.New("pad_seconds must not be negative")
	}
	if p.Gain == 0 {
		return errors.New("gain must not be zero")
	}
	if p.Network == "" {
		return errors.New("network is required")
	}
	if p.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	return nil
}
