package geodesy

import (
	"math"

	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/umahmood/haversine"
)

// Sphere uses the haversine great-circle distance on a 6371 km sphere. It is
// within about 0.5% of the ellipsoid and is useful for cross-checking.
type Sphere struct{}

func (Sphere) Inverse(lat1, lon1, lat2, lon2 float64) (domain.GeodesicResult, error) {
	if err := validate(lat1, lon1, lat2, lon2); err != nil {
		return domain.GeodesicResult{}, err
	}

	_, km := haversine.Distance(
		haversine.Coord{Lat: lat1, Lon: lon1},
		haversine.Coord{Lat: lat2, Lon: lon2},
	)

	return domain.GeodesicResult{
		DistanceM:   km * 1000,
		Azimuth:     initialBearing(lat1, lon1, lat2, lon2),
		BackAzimuth: initialBearing(lat2, lon2, lat1, lon1),
	}, nil
}

// initialBearing is the great-circle bearing at point 1 towards point 2.
func initialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	return normalizeAzimuth(math.Atan2(y, x) * 180 / math.Pi)
}
