package geo

import (
	"math"

	"geocell/pkg/geomath"
)

// MaxCoverLength is the largest geohash length Cover supports. Grid cell
// spans per length are precomputed up to this bound; requests beyond it are
// clamped.
const MaxCoverLength = 12

// Bounds classifies a covering cell relative to the query region.
type Bounds int

const (
	// BoundsIntersecting marks a cell that overlaps the region boundary.
	BoundsIntersecting Bounds = iota
	// BoundsIncluded marks a cell fully inside the region.
	BoundsIncluded
)

func (b Bounds) String() string {
	if b == BoundsIncluded {
		return "included"
	}
	return "intersecting"
}

// cellSpans holds the exact lat/lon extent in degrees of a geohash cell of
// length i+1: 180/2^floor(5L/2) by 360/2^ceil(5L/2). Spans are expressed in
// degrees rather than meters, so the grid does not distort near the poles.
var cellSpans = [MaxCoverLength]struct{ Lat, Lon float64 }{
	{45, 45},
	{5.625, 11.25},
	{1.40625, 1.40625},
	{0.17578125, 0.3515625},
	{0.0439453125, 0.0439453125},
	{0.0054931640625, 0.010986328125},
	{0.001373291015625, 0.001373291015625},
	{0.000171661376953125, 0.00034332275390625},
	{4.291534423828125e-05, 4.291534423828125e-05},
	{5.364418029785156e-06, 1.0728836059570312e-05},
	{1.3411045074462891e-06, 1.3411045074462891e-06},
	{1.6763806343078613e-07, 3.3527612686157227e-07},
}

// LatLonRect is a rectangular geographic region given by its southwest and
// northeast corners, in degrees.
type LatLonRect struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundingRect returns the rect itself.
func (r LatLonRect) BoundingRect() LatLonRect { return r }

// Center returns the rect's midpoint.
func (r LatLonRect) Center() (lat, lon float64) {
	return (r.MinLat + r.MaxLat) / 2, (r.MinLon + r.MaxLon) / 2
}

// Contains reports whether the coordinate lies within the rect, edges
// included.
func (r LatLonRect) Contains(lat, lon float64) bool {
	return lat >= r.MinLat && lat <= r.MaxLat && lon >= r.MinLon && lon <= r.MaxLon
}

// Circle is a circular geographic region: a center coordinate and a radius
// in meters.
type Circle struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	RadiusM float64 `json:"radius_m"`
}

// BoundingRect returns the smallest lat/lon rect enclosing the circle. The
// rect may extend past ±180 longitude when the circle crosses the
// antimeridian; Cover handles the wraparound.
func (c Circle) BoundingRect() LatLonRect {
	dLat := geomath.MetersToLatDegrees(c.RadiusM)
	dLon := geomath.MetersToLonDegrees(c.RadiusM, c.Lat)
	return LatLonRect{
		MinLat: c.Lat - dLat,
		MinLon: c.Lon - dLon,
		MaxLat: c.Lat + dLat,
		MaxLon: c.Lon + dLon,
	}
}

// Center returns the circle's center.
func (c Circle) Center() (lat, lon float64) { return c.Lat, c.Lon }

// Contains reports whether the coordinate lies within the circle, measured
// by great-circle distance.
func (c Circle) Contains(lat, lon float64) bool {
	return geomath.HaversineM(c.Lat, c.Lon, lat, lon) <= c.RadiusM
}

// Region abstracts the two query-region shapes Cover accepts.
type Region interface {
	BoundingRect() LatLonRect
	Center() (lat, lon float64)
	Contains(lat, lon float64) bool
}

// Cover computes the set of geohash cells at the given length that
// approximately cover the region, each tagged BoundsIncluded (cell fully
// inside) or BoundsIntersecting (cell overlaps the boundary; reported only
// when includeIntersecting is true). Length is clamped to
// [MinCodeLength, MaxCoverLength].
//
// The sweep starts from the geohash-box center of the region's center, which
// keeps the candidate grid aligned with actual cell boundaries, and walks
// outward in concentric rings, visiting four sector cells (NE/SE/SW/NW) per
// ring step. Diagonal-sector cells are classified by testing their extreme
// corners against the region; cells on the two mid-axes can touch the region
// with an edge while no corner is inside, so they use a cheaper edge-distance
// comparison against the region's center-to-edge half-span instead.
//
// This is an approximation: a cell overlapping the region only in a corner
// case may be tagged either way or overcovered, trading exactness for
// O(rings²) work. The region center's own cell is always present and always
// BoundsIncluded.
func Cover(region Region, length int, includeIntersecting bool) map[string]Bounds {
	length = clampI(length, MinCodeLength, MaxCoverLength)
	span := cellSpans[length-1]

	rect := region.BoundingRect()
	halfLat := (rect.MaxLat - rect.MinLat) / 2
	halfLon := (rect.MaxLon - rect.MinLon) / 2

	centerLat, centerLon := region.Center()
	centerBox := EncodeBox(centerLat, centerLon, length)

	result := make(map[string]Bounds)

	// A region smaller than one grid cell needs no sweep unless boundary
	// cells were requested.
	if !includeIntersecting && 2*halfLat < span.Lat && 2*halfLon < span.Lon {
		result[centerBox.Code] = BoundsIncluded
		return result
	}

	latSteps := int(math.Ceil(2 * halfLat / span.Lat))
	lonSteps := int(math.Ceil(2 * halfLon / span.Lon))
	if latSteps < 2 {
		latSteps = 2
	}
	if lonSteps < 2 {
		lonSteps = 2
	}

	originLat, originLon := centerBox.Center()

	for j := 0; j <= (latSteps+1)/2; j++ {
		for i := 0; i <= (lonSteps+1)/2; i++ {
			for _, sector := range [4][2]float64{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}} {
				sLat, sLon := sector[0], sector[1]
				tag, ok := classifyCell(region, halfLat, halfLon, span.Lat, span.Lon, i, j, sLat, sLon, originLat, originLon)
				if !ok || (tag == BoundsIntersecting && !includeIntersecting) {
					continue
				}
				cellLat := clampF(originLat+sLat*float64(j)*span.Lat, -90, 90)
				cellLon := wrapLon(originLon + sLon*float64(i)*span.Lon)
				code := Encode(cellLat, cellLon, length)
				if prev, seen := result[code]; !seen || tag > prev {
					result[code] = tag
				}
			}
		}
	}

	// The query coordinate's own cell is part of every covering.
	result[centerBox.Code] = BoundsIncluded
	return result
}

// classifyCell tags the candidate cell at ring offset (i, j) in the sector
// given by the lat/lon signs. ok is false when the cell does not touch the
// region at all.
func classifyCell(region Region, halfLat, halfLon, latSpan, lonSpan float64, i, j int, sLat, sLon, originLat, originLon float64) (Bounds, bool) {
	if i == 0 && j == 0 {
		return BoundsIncluded, true
	}

	offLat := float64(j) * latSpan
	offLon := float64(i) * lonSpan

	// Mid-axis cells sit directly north/south (or east/west) of the center;
	// only these can intersect the region through an edge alone, so an edge
	// distance check against the center-to-edge half-span suffices.
	if i == 0 {
		near, far := offLat-latSpan/2, offLat+latSpan/2
		if far <= halfLat {
			return BoundsIncluded, true
		}
		if near < halfLat {
			return BoundsIntersecting, true
		}
		return 0, false
	}
	if j == 0 {
		near, far := offLon-lonSpan/2, offLon+lonSpan/2
		if far <= halfLon {
			return BoundsIncluded, true
		}
		if near < halfLon {
			return BoundsIntersecting, true
		}
		return 0, false
	}

	// Diagonal sectors: the corner of the cell farthest from the region
	// center decides full inclusion, the nearest corner decides overlap.
	cellLat := originLat + sLat*offLat
	cellLon := originLon + sLon*offLon
	farLat := clampF(cellLat+sLat*latSpan/2, -90, 90)
	farLon := wrapLon(cellLon + sLon*lonSpan/2)
	if region.Contains(farLat, farLon) {
		return BoundsIncluded, true
	}
	nearLat := clampF(cellLat-sLat*latSpan/2, -90, 90)
	nearLon := wrapLon(cellLon - sLon*lonSpan/2)
	if region.Contains(nearLat, nearLon) {
		return BoundsIntersecting, true
	}
	return 0, false
}

// wrapLon normalizes a longitude to [-180, 180), wrapping across the
// antimeridian.
func wrapLon(lon float64) float64 {
	if lon >= 180 {
		return lon - 360
	}
	if lon < -180 {
		return lon + 360
	}
	return lon
}
