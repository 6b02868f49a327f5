// Package geomath provides the small amount of spherical geometry shared by
// the geo core and the service layer: great-circle distance and conversions
// between meters and degrees of latitude/longitude.
package geomath

import "math"

const (
	EarthRadiusKm = 6371.0
	EarthRadiusM  = EarthRadiusKm * 1000
)

// HaversineKm returns the great-circle distance between two coordinates in
// kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// HaversineM returns the great-circle distance in meters.
func HaversineM(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineKm(lat1, lon1, lat2, lon2) * 1000
}

// MetersToLatDegrees converts a north-south distance to degrees of latitude.
func MetersToLatDegrees(m float64) float64 {
	return m / EarthRadiusM * 180 / math.Pi
}

// MetersToLonDegrees converts an east-west distance to degrees of longitude
// at the given latitude. Near the poles the cosine term collapses; it is
// floored so the result stays finite, at the cost of overestimating the
// span there.
func MetersToLonDegrees(m, lat float64) float64 {
	cos := math.Cos(lat * math.Pi / 180)
	if cos < 1e-9 {
		cos = 1e-9
	}
	return MetersToLatDegrees(m) / cos
}
