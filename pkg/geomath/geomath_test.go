package geomath

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{
			name: "SF to LA",
			lat1: 37.7749, lon1: -122.4194,
			lat2: 34.0522, lon2: -118.2437,
			wantKm: 559, tolKm: 10,
		},
		{
			name: "same point",
			lat1: 48.8566, lon1: 2.3522,
			lat2: 48.8566, lon2: 2.3522,
			wantKm: 0, tolKm: 0.001,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			wantKm: 111.19, tolKm: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("HaversineKm() = %v, want %v ± %v", got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestMetersToDegrees(t *testing.T) {
	// A degree round trip through the conversion must land on the haversine
	// distance it came from.
	d := MetersToLatDegrees(1000)
	if got := HaversineM(0, 0, d, 0); math.Abs(got-1000) > 1 {
		t.Errorf("1000m as lat degrees measures back as %vm", got)
	}

	// Longitude degrees widen with latitude.
	atEquator := MetersToLonDegrees(1000, 0)
	at60 := MetersToLonDegrees(1000, 60)
	if at60 <= atEquator {
		t.Errorf("MetersToLonDegrees at 60° = %v, want more than %v at the equator", at60, atEquator)
	}
	if math.Abs(at60-2*atEquator) > 1e-9 {
		t.Errorf("MetersToLonDegrees at 60° = %v, want twice the equator value %v", at60, 2*atEquator)
	}

	// Near the poles the conversion stays finite.
	if v := MetersToLonDegrees(1000, 90); math.IsInf(v, 0) || math.IsNaN(v) {
		t.Errorf("MetersToLonDegrees at the pole = %v", v)
	}
}
