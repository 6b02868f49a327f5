package entities

import (
	"time"

	"geocell/pkg/utils"
)

// Marker is a labeled point indexed by the cluster service's quadtree.
type Marker struct {
	ID        string    `json:"id"`
	Location  Location  `json:"location"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMarker creates a Marker with a fresh ID and the current timestamp.
func NewMarker(label string, lat, lon float64) *Marker {
	return &Marker{
		ID:        utils.GenerateID(),
		Location:  NewLocation(lat, lon),
		Label:     label,
		CreatedAt: time.Now(),
	}
}
