package domain

// GeodesicResult is the solution of an inverse geodesic problem between two points.
type GeodesicResult struct {
	DistanceM   float64 // metres
	Azimuth     float64 // degrees clockwise from north at point 1, [0, 360)
	BackAzimuth float64 // degrees from point 2 back to point 1, [0, 360)
}

// Geodesic computes distance and azimuths between two lat/lon pairs.
type Geodesic interface {
	Inverse(lat1, lon1, lat2, lon2 float64) (GeodesicResult, error)
}
