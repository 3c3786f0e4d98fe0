package domain

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NoiseSource fills buffers with synthetic noise.
type NoiseSource interface {
	Fill(dst []float64)
}

// UniformNoise draws independent samples from [min, max).
type UniformNoise struct {
	dist distuv.Uniform
}

// NewUniformNoise returns a uniform noise source. A zero seed is replaced by a
// random one; any other seed gives a reproducible sequence.
func NewUniformNoise(lo, hi float64, seed uint64) *UniformNoise {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &UniformNoise{dist: distuv.Uniform{
		Min: lo,
		Max: hi,
		Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}}
}

func (u *UniformNoise) Fill(dst []float64) {
	for i := range dst {
		dst[i] = u.dist.Rand()
	}
}
