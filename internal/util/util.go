// Package util provides parsing helpers shared by the command surface.
package util

import (
	"strconv"
	"strings"

	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// ParseWaypoint parses a "x,y,z,time" argument into a waypoint. The first
// three fields must be numeric; the time field is validated by the waypoint
// itself so all timestamp formats stay in one place.
func ParseWaypoint(s string) (core.Waypoint, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return core.Waypoint{}, &core.ValidationError{Field: "waypoint", Reason: "expected x,y,z,time"}
	}

	var coords [3]float64
	for i, name := range []string{"x", "y", "z"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return core.Waypoint{}, &core.ValidationError{Field: name, Reason: "not a number: " + parts[i]}
		}
		coords[i] = v
	}

	wp := core.Waypoint{
		X:    coords[0],
		Y:    coords[1],
		Z:    coords[2],
		Time: TrimQuotes(strings.TrimSpace(parts[3])),
	}
	if err := wp.Validate(); err != nil {
		return core.Waypoint{}, err
	}
	return wp, nil
}

// ParseGeoWaypoint parses a "lat,lon,alt,time" argument and converts it to
// local planar coordinates around origin.
func ParseGeoWaypoint(s string, origin core.Origin) (core.Waypoint, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return core.Waypoint{}, &core.ValidationError{Field: "waypoint", Reason: "expected lat,lon,alt,time"}
	}

	var fields [3]float64
	for i, name := range []string{"lat", "lon", "alt"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return core.Waypoint{}, &core.ValidationError{Field: name, Reason: "not a number: " + parts[i]}
		}
		fields[i] = v
	}

	ts := TrimQuotes(strings.TrimSpace(parts[3]))
	return core.FromGeographic(origin, fields[0], fields[1], fields[2], ts)
}

// ParseIndex parses a zero-based list index argument.
func ParseIndex(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &core.ValidationError{Field: "index", Reason: "not an integer: " + s}
	}
	return i, nil
}
