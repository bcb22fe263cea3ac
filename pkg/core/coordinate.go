package core

import (
	"errors"

	"github.com/wroge/wgs84"
)

// The analysis service expects local Cartesian meters. Geographic input is
// projected to EPSG:3857 so operators can enter positions either way; the
// projection origin is the planning area's reference point.

// ErrInvalidCoordinates is returned when geographic input is out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Origin anchors geographic input to the local frame. X/Y are the projected
// meters of the reference point, subtracted from every converted position.
type Origin struct {
	X float64
	Y float64
}

// OriginFromGeographic builds a local-frame origin from a reference
// latitude/longitude.
func OriginFromGeographic(lat, lon float64) (Origin, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Origin{}, ErrInvalidCoordinates
	}
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ := f(lon, lat, 0)
	return Origin{X: x, Y: y}, nil
}

// FromGeographic converts a geographic sample to a local-frame Waypoint.
// Altitude passes through unchanged as Z.
func FromGeographic(origin Origin, lat, lon, alt float64, timestamp string) (Waypoint, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Waypoint{}, ErrInvalidCoordinates
	}
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ := f(lon, lat, 0)
	return Waypoint{
		X:    x - origin.X,
		Y:    y - origin.Y,
		Z:    alt,
		Time: timestamp,
	}, nil
}
