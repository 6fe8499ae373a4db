// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package gps implements the world-to-GPS affine coordinate mapping used by
// the export pass. It is an external collaborator to the decoder proper:
// nothing in internal or models depends on it, and it imports no other
// package of this module, taking plain float64 coordinates.
package gps

// Origin_t is a world-space coordinate, reused here rather than importing
// container just for a point type.
type Origin_t struct {
	X, Y float64
}

// Mapper converts world-space coordinates into the game's on-screen GPS
// lat/lon, via the per-map affine transform the game itself uses: each map
// defines an origin (the world-space point that maps to GPS 0,0) and a
// scale (world units per GPS degree).
//
// lat tracks world Y, lon tracks world X, matching the in-game map UI.
type Mapper struct {
	Origin  Origin_t
	ScaleX  float64
	ScaleY  float64
}

// NewMapper builds a Mapper from a map's origin and world-units-per-GPS-unit
// scale. The game's own per-map data records this scale as a fraction (e.g.
// 800000/100 for the default map); pass the already-reduced value.
func NewMapper(originX, originY, scale float64) *Mapper {
	return &Mapper{
		Origin: Origin_t{X: originX, Y: originY},
		ScaleX: scale,
		ScaleY: scale,
	}
}

// ToLatLon projects a world-space (x, y) into (lat, lon).
func (m *Mapper) ToLatLon(x, y float64) (lat, lon float64) {
	lat = (y - m.Origin.Y) / m.ScaleY
	lon = (x - m.Origin.X) / m.ScaleX
	return lat, lon
}
