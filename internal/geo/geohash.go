// Package geo implements the geospatial core of geocell: geohash
// encoding/decoding with adjacency, proximity-based region covering, and a
// point quadtree for range queries.
//
// A geohash encodes a latitude/longitude pair into a short base-32 string by
// recursively bisecting the world extent, alternating between longitude (even
// bit positions) and latitude (odd bit positions). Nearby locations tend to
// share a common prefix, which makes geohashes good cache keys: a region query
// can be answered by looking up a handful of cell codes instead of scanning
// every stored point.
//
// Cell size by code length:
//
//	1 → ~5000 km    4 → ~39 km     7 → ~153 m    10 → ~1.2 m
//	2 → ~1250 km    5 → ~5 km      8 → ~19 m     11 → ~15 cm
//	3 → ~156 km     6 → ~1.2 km    9 → ~2.4 m    12 → ~1.9 cm
package geo

import (
	"math"
	"strings"
	"sync"
)

// base32 is the geohash character set. 'a', 'i', 'l', and 'o' are excluded
// to avoid confusion with digits 0/1.
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// Code length bounds accepted by Encode. Out-of-range lengths are clamped,
// never rejected.
const (
	MinCodeLength = 1
	MaxCodeLength = 22
)

// Direction selects one of the four lateral neighbors of a cell.
type Direction string

const (
	North Direction = "n"
	South Direction = "s"
	East  Direction = "e"
	West  Direction = "w"
)

// Lookup tables for neighbor calculation, keyed by direction and by the
// parity of the code length ('e' for even-length codes, 'o' for odd). The
// geohash bit stream alternates longitude/latitude, so the grid layout of the
// last character depends on whether the total length is even or odd.
//
// neighborTable maps a cell's last character to the last character of its
// neighbor; borderTable lists the characters sitting on the edge of their
// parent cell, where the step has to cross into an adjacent parent. The
// tables already encode longitude wraparound at the antimeridian and the
// latitude behavior at the poles.
var (
	base32Index = map[byte]int{}

	neighborTable = map[Direction]map[byte]string{
		North: {'e': "p0r21436x8zb9dcf5h7kjnmqesgutwvy", 'o': "bc01fg45238967deuvhjyznpkmstqrwx"},
		South: {'e': "14365h7k9dcfesgujnmqp0r2twvyx8zb", 'o': "238967debc01fg45kmstqrwxuvhjyznp"},
		East:  {'e': "bc01fg45238967deuvhjyznpkmstqrwx", 'o': "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
		West:  {'e': "238967debc01fg45kmstqrwxuvhjyznp", 'o': "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
	}
	borderTable = map[Direction]map[byte]string{
		North: {'e': "prxz", 'o': "bcfguvyz"},
		South: {'e': "028b", 'o': "0145hjnp"},
		East:  {'e': "bcfguvyz", 'o': "prxz"},
		West:  {'e': "0145hjnp", 'o': "028b"},
	}
)

func init() {
	for i := 0; i < len(base32); i++ {
		base32Index[base32[i]] = i
	}
}

// Box is the axis-aligned bounding box a geohash code represents. It is an
// immutable value computed either forward (from a coordinate and a length)
// or in reverse (from a code).
type Box struct {
	Code   string
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Center returns the midpoint of the box.
func (b Box) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// NorthEast returns the northeast corner.
func (b Box) NorthEast() (lat, lon float64) { return b.MaxLat, b.MaxLon }

// SouthWest returns the southwest corner.
func (b Box) SouthWest() (lat, lon float64) { return b.MinLat, b.MinLon }

// NorthWest returns the northwest corner.
func (b Box) NorthWest() (lat, lon float64) { return b.MaxLat, b.MinLon }

// SouthEast returns the southeast corner.
func (b Box) SouthEast() (lat, lon float64) { return b.MinLat, b.MaxLon }

// Vertices returns the four corners clockwise starting at the northeast, as
// (lat, lon) pairs.
func (b Box) Vertices() [4][2]float64 {
	return [4][2]float64{
		{b.MaxLat, b.MaxLon},
		{b.MinLat, b.MaxLon},
		{b.MinLat, b.MinLon},
		{b.MaxLat, b.MinLon},
	}
}

// Contains reports whether the coordinate lies within the box, edges
// included.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// encodeKey identifies a memoized Encode result.
type encodeKey struct {
	lat, lon float64
	length   int
}

// encodeCache memoizes Encode results behind a mutex so that the covering
// sweep (which re-encodes many nearby cell centers) and concurrent callers
// both benefit. The cache is bounded: once maxEntries is reached it is
// dropped wholesale and rebuilt, which keeps memory flat in long-running
// processes without per-entry eviction bookkeeping.
type encodeCache struct {
	mu         sync.Mutex
	entries    map[encodeKey]string
	maxEntries int
	hits       uint64
	misses     uint64
}

func newEncodeCache(maxEntries int) *encodeCache {
	return &encodeCache{
		entries:    make(map[encodeKey]string),
		maxEntries: maxEntries,
	}
}

func (c *encodeCache) get(key encodeKey) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	code, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return code, ok
}

func (c *encodeCache) put(key encodeKey, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		c.entries = make(map[encodeKey]string)
	}
	c.entries[key] = code
}

func (c *encodeCache) stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

var defaultEncodeCache = newEncodeCache(1 << 16)

// EncodeCacheStats returns the hit/miss counters of the Encode memoization
// cache, for surfacing on a debug endpoint or in metrics.
func EncodeCacheStats() (hits, misses uint64) {
	return defaultEncodeCache.stats()
}

// Encode converts a coordinate to a geohash code of the given length.
// Latitude is clamped to [-90, 90], longitude to [-180, 180] and length to
// [MinCodeLength, MaxCodeLength] before encoding. Results are memoized.
func Encode(lat, lon float64, length int) string {
	lat = clampF(lat, -90, 90)
	lon = clampF(lon, -180, 180)
	length = clampI(length, MinCodeLength, MaxCodeLength)

	key := encodeKey{lat: lat, lon: lon, length: length}
	if code, ok := defaultEncodeCache.get(key); ok {
		return code
	}
	code := encodeBox(lat, lon, length).Code
	defaultEncodeCache.put(key, code)
	return code
}

// EncodeBox computes the bounding box of the cell containing the coordinate
// at the given length. The cell's code is carried on the returned Box.
func EncodeBox(lat, lon float64, length int) Box {
	lat = clampF(lat, -90, 90)
	lon = clampF(lon, -180, 180)
	length = clampI(length, MinCodeLength, MaxCodeLength)
	return encodeBox(lat, lon, length)
}

// encodeBox runs the binary interleaving: for each bit position, bisect the
// active axis range, emit 1 and keep the upper half when the coordinate is at
// or above the midpoint. Five bits (MSB first) form one base-32 character.
func encodeBox(lat, lon float64, length int) Box {
	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0

	var code strings.Builder
	code.Grow(length)
	isLon := true
	bit := 0
	ch := 0

	for code.Len() < length {
		if isLon {
			mid := (minLon + maxLon) / 2
			if lon >= mid {
				ch |= 1 << (4 - bit)
				minLon = mid
			} else {
				maxLon = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		isLon = !isLon
		bit++
		if bit == 5 {
			code.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return Box{
		Code:   code.String(),
		MinLat: minLat,
		MaxLat: maxLat,
		MinLon: minLon,
		MaxLon: maxLon,
	}
}

// DecodeBox recovers the bounding box of a geohash code by replaying the
// binary subdivision. ok is false for an empty code or one containing a
// character outside the base-32 alphabet.
func DecodeBox(code string) (Box, bool) {
	if code == "" {
		return Box{}, false
	}
	code = strings.ToLower(code)

	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0
	isLon := true

	for i := 0; i < len(code); i++ {
		cd, ok := base32Index[code[i]]
		if !ok {
			return Box{}, false
		}
		for j := 4; j >= 0; j-- {
			bit := (cd >> j) & 1
			if isLon {
				mid := (minLon + maxLon) / 2
				if bit == 1 {
					minLon = mid
				} else {
					maxLon = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if bit == 1 {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			isLon = !isLon
		}
	}

	return Box{
		Code:   code,
		MinLat: minLat,
		MaxLat: maxLat,
		MinLon: minLon,
		MaxLon: maxLon,
	}, true
}

// Decode converts a geohash code back to a coordinate: the center of the
// cell, rounded per axis to the precision the remaining span supports. ok is
// false for malformed codes and for degenerate spans whose rounding
// multiplier is not finite.
func Decode(code string) (lat, lon float64, ok bool) {
	box, ok := DecodeBox(code)
	if !ok {
		return 0, 0, false
	}

	latMul := roundingMultiplier(box.MaxLat - box.MinLat)
	lonMul := roundingMultiplier(box.MaxLon - box.MinLon)
	if math.IsInf(latMul, 0) || math.IsNaN(latMul) || math.IsInf(lonMul, 0) || math.IsNaN(lonMul) {
		return 0, 0, false
	}

	cLat, cLon := box.Center()
	return math.Round(cLat*latMul) / latMul, math.Round(cLon*lonMul) / lonMul, true
}

// roundingMultiplier derives the decimal precision recoverable from a cell
// span: 10^max(1, ceil(-log10(span))).
func roundingMultiplier(span float64) float64 {
	return math.Pow(10, math.Max(1, math.Ceil(-math.Log10(span))))
}

// Adjacent returns the code of the neighboring cell of the same length in
// the given direction. ok is false for an empty code, a malformed code, or
// an unknown direction. Longitude wraps across the antimeridian; at the
// poles the tables produce a clamped/wrapped but well-formed code.
//
// The last character is substituted through the direction's neighbor table
// for the code's length parity. When that character sits on the border of
// its parent cell, the parent code is first stepped in the same direction,
// recursively.
func Adjacent(code string, dir Direction) (string, bool) {
	if code == "" {
		return "", false
	}
	code = strings.ToLower(code)
	last := code[len(code)-1]
	parent := code[:len(code)-1]

	var parity byte = 'o'
	if len(code)%2 == 0 {
		parity = 'e'
	}

	neighborChars, okDir := neighborTable[dir]
	if !okDir {
		return "", false
	}

	if strings.IndexByte(borderTable[dir][parity], last) >= 0 && parent != "" {
		var ok bool
		parent, ok = Adjacent(parent, dir)
		if !ok {
			return "", false
		}
	}

	idx := strings.IndexByte(neighborChars[parity], last)
	if idx < 0 {
		return "", false
	}
	return parent + string(base32[idx]), true
}

// Neighbors holds the eight cells surrounding a geohash cell.
type Neighbors struct {
	North     string `json:"n"`
	NorthEast string `json:"ne"`
	East      string `json:"e"`
	SouthEast string `json:"se"`
	South     string `json:"s"`
	SouthWest string `json:"sw"`
	West      string `json:"w"`
	NorthWest string `json:"nw"`
}

// AllNeighbors computes the eight adjacent codes. The diagonals are composed
// from two lateral steps (NE = east of north, SE = east of south, SW = west
// of south, NW = west of north). ok is false if any lookup fails.
func AllNeighbors(code string) (Neighbors, bool) {
	n, okN := Adjacent(code, North)
	s, okS := Adjacent(code, South)
	e, okE := Adjacent(code, East)
	w, okW := Adjacent(code, West)
	if !okN || !okS || !okE || !okW {
		return Neighbors{}, false
	}
	ne, okNE := Adjacent(n, East)
	se, okSE := Adjacent(s, East)
	sw, okSW := Adjacent(s, West)
	nw, okNW := Adjacent(n, West)
	if !okNE || !okSE || !okSW || !okNW {
		return Neighbors{}, false
	}
	return Neighbors{
		North:     n,
		NorthEast: ne,
		East:      e,
		SouthEast: se,
		South:     s,
		SouthWest: sw,
		West:      w,
		NorthWest: nw,
	}, true
}

// Parent returns the code with its last character dropped. ok is false when
// the code has no parent (length <= 1).
func Parent(code string) (string, bool) {
	if len(code) <= 1 {
		return "", false
	}
	return code[:len(code)-1], true
}

// Precision names the geohash code lengths 1..11 by the approximate extent
// of a cell at that length. It is a convenience enumeration over Encode's
// length parameter, not separate logic.
type Precision int

const (
	Precision2500km Precision = iota + 1
	Precision630km
	Precision78km
	Precision20km
	Precision2400m
	Precision610m
	Precision76m
	Precision19m
	Precision2400mm
	Precision600mm
	Precision74mm
)

// Length returns the geohash code length the precision level maps to.
func (p Precision) Length() int { return int(p) }

// EncodeWithPrecision encodes a coordinate at a named precision level.
func EncodeWithPrecision(lat, lon float64, p Precision) string {
	return Encode(lat, lon, int(p))
}

func clampF(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampI(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
