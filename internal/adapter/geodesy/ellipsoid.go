package geodesy

import (
	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/tidwall/geodesic"
)

// WGS84 ellipsoid parameters.
const (
	SemiMajorAxis = 6378137.0
	Flattening    = 1 / 298.257223563
)

// Ellipsoid solves the inverse geodesic problem on a reference ellipsoid.
type Ellipsoid struct {
	e *geodesic.Ellipsoid
}

// NewWGS84 returns an Ellipsoid for WGS84.
func NewWGS84() *Ellipsoid {
	return NewEllipsoid(SemiMajorAxis, Flattening)
}

// NewEllipsoid returns an Ellipsoid with semi-major axis a (metres) and flattening f.
func NewEllipsoid(a, f float64) *Ellipsoid {
	return &Ellipsoid{e: geodesic.NewEllipsoid(a, f)}
}

// Inverse returns the distance from point 1 to point 2, the azimuth of the
// geodesic at point 1 and the back azimuth at point 2.
func (g *Ellipsoid) Inverse(lat1, lon1, lat2, lon2 float64) (domain.GeodesicResult, error) {
	if err := validate(lat1, lon1, lat2, lon2); err != nil {
		return domain.GeodesicResult{}, err
	}

	var dist, azi1, azi2 float64
	g.e.Inverse(lat1, lon1, lat2, lon2, &dist, &azi1, &azi2)

	return domain.GeodesicResult{
		DistanceM:   dist,
		Azimuth:     normalizeAzimuth(azi1),
		BackAzimuth: normalizeAzimuth(azi2 + 180),
	}, nil
}
