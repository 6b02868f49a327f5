package services

import (
	"errors"
	"sync"

	"geocell/internal/domain/entities"
	"geocell/internal/geo"
	"geocell/internal/metrics"
)

// ErrOutOfBounds is returned when a marker position falls outside the world
// rect the quadtree covers.
var ErrOutOfBounds = errors.New("position outside index bounds")

// worldRect maps the quadtree's projected plane onto plain lon/lat degrees.
var worldRect = geo.Rect{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}

// Cluster is a grid bucket of markers inside a viewport: a count and the
// centroid of the bucketed positions. Single-marker buckets carry the
// marker's ID so the consumer can render it unclustered.
type Cluster struct {
	Count    int               `json:"count"`
	Location entities.Location `json:"location"`
	MarkerID string            `json:"marker_id,omitempty"`
}

// ClusterService owns a quadtree of markers and answers viewport queries
// over it. The quadtree has no internal locking, so every access goes
// through the service's mutex.
type ClusterService struct {
	mu      sync.Mutex
	tree    *geo.QuadTree
	markers map[string]*entities.Marker
}

func NewClusterService() *ClusterService {
	return &ClusterService{
		tree:    geo.NewQuadTree(worldRect, nil),
		markers: make(map[string]*entities.Marker),
	}
}

// AddMarker creates a marker and indexes it.
func (s *ClusterService) AddMarker(label string, lat, lon float64) (*entities.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marker := entities.NewMarker(label, lat, lon)
	if !s.tree.Add(geo.Item{ID: marker.ID, X: lon, Y: lat}) {
		return nil, ErrOutOfBounds
	}
	s.markers[marker.ID] = marker
	metrics.MarkersIndexed.Set(float64(len(s.markers)))
	return marker, nil
}

// RemoveMarker deletes a marker by ID, reporting whether it existed.
func (s *ClusterService) RemoveMarker(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	marker, exists := s.markers[id]
	if !exists {
		return false
	}
	s.tree.Remove(geo.Item{ID: id, X: marker.Location.Longitude, Y: marker.Location.Latitude})
	delete(s.markers, id)
	metrics.MarkersIndexed.Set(float64(len(s.markers)))
	return true
}

// GetMarker returns a marker by ID, or nil if unknown.
func (s *ClusterService) GetMarker(id string) *entities.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers[id]
}

// MarkersIn returns the markers whose position falls inside the viewport.
func (s *ClusterService) MarkersIn(viewport geo.LatLonRect) []*entities.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.tree.ItemsIn(viewportRect(viewport))
	markers := make([]*entities.Marker, 0, len(items))
	for _, item := range items {
		if m, ok := s.markers[item.ID]; ok {
			markers = append(markers, m)
		}
	}
	return markers
}

// Clusters buckets the viewport's markers into a cellsPerAxis × cellsPerAxis
// grid and returns a count and centroid per non-empty bucket. Each bucket is
// answered with one quadtree range query, so off-screen subtrees are never
// touched.
func (s *ClusterService) Clusters(viewport geo.LatLonRect, cellsPerAxis int) []Cluster {
	if cellsPerAxis < 1 {
		cellsPerAxis = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stepX := (viewport.MaxLon - viewport.MinLon) / float64(cellsPerAxis)
	stepY := (viewport.MaxLat - viewport.MinLat) / float64(cellsPerAxis)
	if stepX <= 0 || stepY <= 0 {
		return nil
	}

	var clusters []Cluster
	claimed := make(map[string]bool)
	for row := 0; row < cellsPerAxis; row++ {
		for col := 0; col < cellsPerAxis; col++ {
			cell := geo.Rect{
				MinX: viewport.MinLon + float64(col)*stepX,
				MinY: viewport.MinLat + float64(row)*stepY,
				MaxX: viewport.MinLon + float64(col+1)*stepX,
				MaxY: viewport.MinLat + float64(row+1)*stepY,
			}
			items := s.tree.ItemsIn(cell)
			var sumLat, sumLon float64
			count := 0
			lastID := ""
			for _, item := range items {
				// Bucket edges are shared; a marker sitting exactly on one
				// belongs to the first bucket that saw it.
				if claimed[item.ID] {
					continue
				}
				claimed[item.ID] = true
				sumLat += item.Y
				sumLon += item.X
				count++
				lastID = item.ID
			}
			if count == 0 {
				continue
			}
			c := Cluster{
				Count:    count,
				Location: entities.NewLocation(sumLat/float64(count), sumLon/float64(count)),
			}
			if count == 1 {
				c.MarkerID = lastID
			}
			clusters = append(clusters, c)
		}
	}
	return clusters
}

// Count returns the number of indexed markers.
func (s *ClusterService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}

// Clear drops all markers and resets the quadtree.
func (s *ClusterService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Clear()
	s.markers = make(map[string]*entities.Marker)
	metrics.MarkersIndexed.Set(0)
}

func viewportRect(v geo.LatLonRect) geo.Rect {
	return geo.Rect{MinX: v.MinLon, MinY: v.MinLat, MaxX: v.MaxLon, MaxY: v.MaxLat}
}
