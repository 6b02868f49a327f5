package services

import (
	"errors"
	"fmt"
	"testing"

	"geocell/internal/geo"
)

func TestClusterServiceAddMarker(t *testing.T) {
	svc := NewClusterService()

	marker, err := svc.AddMarker("cafe", 48.8566, 2.3522)
	if err != nil {
		t.Fatalf("AddMarker() error = %v", err)
	}
	if marker.ID == "" || marker.Label != "cafe" {
		t.Errorf("AddMarker() = %+v, want labeled marker with ID", marker)
	}
	if got := svc.GetMarker(marker.ID); got == nil || got.ID != marker.ID {
		t.Errorf("GetMarker() = %v, want the stored marker", got)
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want 1", svc.Count())
	}
}

func TestClusterServiceAddMarkerOutOfBounds(t *testing.T) {
	svc := NewClusterService()

	if _, err := svc.AddMarker("bad", 95, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("AddMarker(lat 95) error = %v, want ErrOutOfBounds", err)
	}
	if svc.Count() != 0 {
		t.Errorf("Count() = %d, want 0", svc.Count())
	}
}

func TestClusterServiceRemoveMarker(t *testing.T) {
	svc := NewClusterService()
	marker, _ := svc.AddMarker("x", 10, 20)

	if !svc.RemoveMarker(marker.ID) {
		t.Error("RemoveMarker() = false, want true")
	}
	if svc.RemoveMarker(marker.ID) {
		t.Error("RemoveMarker() twice = true, want false")
	}
	if svc.GetMarker(marker.ID) != nil {
		t.Error("GetMarker() after remove != nil")
	}
}

func TestClusterServiceMarkersIn(t *testing.T) {
	svc := NewClusterService()
	in, _ := svc.AddMarker("in", 48.85, 2.35)
	svc.AddMarker("out", -33.86, 151.2)

	viewport := geo.LatLonRect{MinLat: 48, MinLon: 2, MaxLat: 49, MaxLon: 3}
	markers := svc.MarkersIn(viewport)
	if len(markers) != 1 || markers[0].ID != in.ID {
		t.Errorf("MarkersIn() = %v, want only the marker inside the viewport", markers)
	}
}

func TestClusterServiceClusters(t *testing.T) {
	svc := NewClusterService()

	// Two tight groups in opposite corners of the viewport, plus a loner.
	for i := 0; i < 5; i++ {
		svc.AddMarker(fmt.Sprintf("sw%d", i), 0.1+float64(i)*0.01, 0.1+float64(i)*0.01)
	}
	for i := 0; i < 3; i++ {
		svc.AddMarker(fmt.Sprintf("ne%d", i), 9.9-float64(i)*0.01, 9.9-float64(i)*0.01)
	}
	loner, _ := svc.AddMarker("loner", 5.05, 5.05)

	viewport := geo.LatLonRect{MinLat: 0, MinLon: 0, MaxLat: 10, MaxLon: 10}
	clusters := svc.Clusters(viewport, 4)

	if len(clusters) != 3 {
		t.Fatalf("Clusters() returned %d clusters, want 3", len(clusters))
	}
	total := 0
	for _, c := range clusters {
		total += c.Count
		switch c.Count {
		case 1:
			if c.MarkerID != loner.ID {
				t.Errorf("single cluster marker ID = %v, want %v", c.MarkerID, loner.ID)
			}
			if c.Location.Latitude != 5.05 || c.Location.Longitude != 5.05 {
				t.Errorf("single cluster at %v, want the loner's position", c.Location)
			}
		default:
			if c.MarkerID != "" {
				t.Errorf("multi-marker cluster carries marker ID %v", c.MarkerID)
			}
			if !(geo.LatLonRect{MinLat: 0, MinLon: 0, MaxLat: 10, MaxLon: 10}).Contains(c.Location.Latitude, c.Location.Longitude) {
				t.Errorf("cluster centroid %v outside viewport", c.Location)
			}
		}
	}
	if total != 9 {
		t.Errorf("clusters cover %d markers, want 9", total)
	}
}

// Markers sitting exactly on shared bucket edges must be counted once.
func TestClusterServiceClustersEdgeMarkers(t *testing.T) {
	svc := NewClusterService()
	svc.AddMarker("edge", 5, 5)

	viewport := geo.LatLonRect{MinLat: 0, MinLon: 0, MaxLat: 10, MaxLon: 10}
	clusters := svc.Clusters(viewport, 2)

	total := 0
	for _, c := range clusters {
		total += c.Count
	}
	if total != 1 {
		t.Errorf("edge marker counted %d times, want 1", total)
	}
}

func TestClusterServiceClustersDegenerateViewport(t *testing.T) {
	svc := NewClusterService()
	svc.AddMarker("x", 5, 5)

	if got := svc.Clusters(geo.LatLonRect{MinLat: 5, MinLon: 5, MaxLat: 5, MaxLon: 5}, 4); got != nil {
		t.Errorf("Clusters() on zero-area viewport = %v, want nil", got)
	}
}

func TestClusterServiceClear(t *testing.T) {
	svc := NewClusterService()
	for i := 0; i < 20; i++ {
		svc.AddMarker(fmt.Sprintf("m%d", i), float64(i), float64(i))
	}

	svc.Clear()
	if svc.Count() != 0 {
		t.Errorf("Count() after Clear() = %d, want 0", svc.Count())
	}
	if markers := svc.MarkersIn(geo.LatLonRect{MinLat: -90, MinLon: -180, MaxLat: 90, MaxLon: 180}); len(markers) != 0 {
		t.Errorf("MarkersIn() after Clear() = %v, want empty", markers)
	}
	if _, err := svc.AddMarker("again", 1, 1); err != nil {
		t.Errorf("AddMarker() after Clear() error = %v", err)
	}
}
