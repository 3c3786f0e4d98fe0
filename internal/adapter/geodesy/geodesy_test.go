package geodesy

import (
	"math"
	"testing"

	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEllipsoid_Inverse(t *testing.T) {
	g := NewWGS84()

	tests := []struct {
		name                 string
		lat1, lon1           float64
		lat2, lon2           float64
		distM, az, baz, tolM float64
	}{
		{"half degree north", 31.0, 35.0, 31.5, 35.0, 55437, 0, 180, 100},
		{"one degree east on equator", 0, 0, 0, 1, 111319.49, 90, 270, 1},
		{"same point", 31.0, 35.0, 31.0, 35.0, 0, 0, 180, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := g.Inverse(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			require.NoError(t, err)
			assert.InDelta(t, tt.distM, res.DistanceM, tt.tolM)
			if tt.distM > 0 {
				assert.InDelta(t, tt.az, res.Azimuth, 1e-6)
				assert.InDelta(t, tt.baz, res.BackAzimuth, 1e-6)
			}
		})
	}
}

func TestEllipsoid_Symmetric(t *testing.T) {
	g := NewWGS84()

	ab, err := g.Inverse(31.0, 35.0, 32.1, 34.8)
	require.NoError(t, err)
	ba, err := g.Inverse(32.1, 34.8, 31.0, 35.0)
	require.NoError(t, err)

	assert.InDelta(t, ab.DistanceM, ba.DistanceM, 1e-6)
	assert.InDelta(t, ab.Azimuth, ba.BackAzimuth, 1e-6)
}

func TestSphere_Inverse(t *testing.T) {
	res, err := Sphere{}.Inverse(31.0, 35.0, 31.5, 35.0)
	require.NoError(t, err)

	assert.InDelta(t, 6371000*0.5*math.Pi/180, res.DistanceM, 1)
	assert.InDelta(t, 0, res.Azimuth, 1e-9)
	assert.InDelta(t, 180, res.BackAzimuth, 1e-9)

	east, err := Sphere{}.Inverse(0, 0, 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 90, east.Azimuth, 1e-9)
	assert.InDelta(t, 270, east.BackAzimuth, 1e-9)
}

func TestSphere_CloseToEllipsoid(t *testing.T) {
	s, err := Sphere{}.Inverse(31.0, 35.0, 29.55, 34.95)
	require.NoError(t, err)
	e, err := NewWGS84().Inverse(31.0, 35.0, 29.55, 34.95)
	require.NoError(t, err)

	assert.InEpsilon(t, e.DistanceM, s.DistanceM, 0.005)
}

func TestInverse_InvalidCoordinates(t *testing.T) {
	for _, g := range []domain.Geodesic{NewWGS84(), Sphere{}} {
		_, err := g.Inverse(91, 0, 0, 0)
		require.ErrorIs(t, err, domain.ErrMalformedInput)

		_, err = g.Inverse(0, math.NaN(), 0, 0)
		require.ErrorIs(t, err, domain.ErrMalformedInput)
	}
}

func TestNew(t *testing.T) {
	g, err := New(ModelEllipsoid)
	require.NoError(t, err)
	assert.IsType(t, &Ellipsoid{}, g)

	g, err = New(ModelSphere)
	require.NoError(t, err)
	assert.IsType(t, Sphere{}, g)

	_, err = New("flat")
	assert.ErrorContains(t, err, "flat")
}
