package entities

// Location represents a geographic coordinate pair in degrees. It is a
// small immutable value, created and passed by value.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// NewLocation creates a Location value from latitude and longitude.
func NewLocation(lat, lon float64) Location {
	return Location{
		Latitude:  lat,
		Longitude: lon,
	}
}
