package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformNoise_Bounds(t *testing.T) {
	buf := make([]float64, 5000)
	NewUniformNoise(-1e-6, 1e-6, 7).Fill(buf)

	for _, v := range buf {
		assert.GreaterOrEqual(t, v, -1e-6)
		assert.Less(t, v, 1e-6)
	}
}

func TestUniformNoise_SeededIsReproducible(t *testing.T) {
	a := make([]float64, 100)
	b := make([]float64, 100)
	NewUniformNoise(-1, 1, 42).Fill(a)
	NewUniformNoise(-1, 1, 42).Fill(b)
	assert.Equal(t, a, b)

	c := make([]float64, 100)
	NewUniformNoise(-1, 1, 43).Fill(c)
	assert.NotEqual(t, a, c)
}

func TestUniformNoise_UnseededDiffers(t *testing.T) {
	a := make([]float64, 100)
	b := make([]float64, 100)
	NewUniformNoise(-1, 1, 0).Fill(a)
	NewUniformNoise(-1, 1, 0).Fill(b)
	assert.NotEqual(t, a, b)
}
