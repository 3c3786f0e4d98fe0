// Package geodesy provides the domain.Geodesic implementations: an exact
// solution on the WGS84 ellipsoid and a spherical approximation.
package geodesy

import (
	"fmt"
	"math"

	"github.com/couchcryptid/seismic-prep/internal/domain"
)

// Model names accepted by New.
const (
	ModelEllipsoid = "ellipsoid"
	ModelSphere    = "sphere"
)

// New returns the Geodesic for the named model.
func New(model string) (domain.Geodesic, error) {
	switch model {
	case ModelEllipsoid, "":
		return NewWGS84(), nil
	case ModelSphere:
		return Sphere{}, nil
	default:
		return nil, fmt.Errorf("unknown geodesic model %q", model)
	}
}

func validate(lat1, lon1, lat2, lon2 float64) error {
	for _, v := range []float64{lat1, lon1, lat2, lon2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coordinate", domain.ErrMalformedInput)
		}
	}
	if math.Abs(lat1) > 90 || math.Abs(lat2) > 90 {
		return fmt.Errorf("%w: latitude out of range (%g, %g)", domain.ErrMalformedInput, lat1, lat2)
	}
	return nil
}

// normalizeAzimuth maps degrees into [0, 360).
func normalizeAzimuth(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
