// Package geo computes trajectory previews shown before submission: path
// length, the 2D extent of a waypoint sequence, and the minimum sampled
// separation between two trajectories. These are advisory only; the
// authoritative conflict check runs on the analysis service.
package geo

import (
	"errors"
	"math"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// ErrTooFewPoints is returned when a trajectory has fewer than two waypoints.
var ErrTooFewPoints = errors.New("trajectory needs at least 2 waypoints")

// TrajectoryLine builds a 2D line string over the waypoint sequence.
func TrajectoryLine(waypoints []core.Waypoint) (geom.LineString, error) {
	if len(waypoints) < 2 {
		return geom.LineString{}, ErrTooFewPoints
	}

	flat := make([]float64, 0, len(waypoints)*2)
	for _, wp := range waypoints {
		flat = append(flat, wp.X, wp.Y)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq), nil
}

// PathLength returns the 2D ground-track length of the trajectory.
func PathLength(waypoints []core.Waypoint) (float64, error) {
	ls, err := TrajectoryLine(waypoints)
	if err != nil {
		return 0, err
	}
	return ls.Length(), nil
}

// BoundingBox returns the 2D envelope of the trajectory.
func BoundingBox(waypoints []core.Waypoint) (geom.Envelope, error) {
	ls, err := TrajectoryLine(waypoints)
	if err != nil {
		return geom.Envelope{}, err
	}
	return ls.Envelope(), nil
}

// sample is a trajectory position at an absolute instant.
type sample struct {
	t       time.Time
	x, y, z float64
}

func samples(waypoints []core.Waypoint) ([]sample, error) {
	out := make([]sample, 0, len(waypoints))
	for _, wp := range waypoints {
		t, err := core.ParseTime(wp.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, sample{t: t, x: wp.X, y: wp.Y, z: wp.Z})
	}
	return out, nil
}

// positionAt linearly interpolates the trajectory position at instant t.
// Clamps to the endpoints outside the trajectory's time span.
func positionAt(s []sample, t time.Time) (x, y, z float64) {
	if t.Before(s[0].t) || t.Equal(s[0].t) {
		return s[0].x, s[0].y, s[0].z
	}
	last := s[len(s)-1]
	if !t.Before(last.t) {
		return last.x, last.y, last.z
	}
	for i := 1; i < len(s); i++ {
		if t.After(s[i].t) {
			continue
		}
		span := s[i].t.Sub(s[i-1].t).Seconds()
		if span <= 0 {
			return s[i].x, s[i].y, s[i].z
		}
		f := t.Sub(s[i-1].t).Seconds() / span
		return s[i-1].x + f*(s[i].x-s[i-1].x),
			s[i-1].y + f*(s[i].y-s[i-1].y),
			s[i-1].z + f*(s[i].z-s[i-1].z)
	}
	return last.x, last.y, last.z
}

// MinSeparation samples both trajectories over their overlapping time window
// at the given step and returns the smallest 3D distance observed. Returns
// +Inf when the time windows do not overlap.
func MinSeparation(a, b []core.Waypoint, step time.Duration) (float64, error) {
	if len(a) < 2 || len(b) < 2 {
		return 0, ErrTooFewPoints
	}
	if step <= 0 {
		step = time.Second
	}

	sa, err := samples(a)
	if err != nil {
		return 0, err
	}
	sb, err := samples(b)
	if err != nil {
		return 0, err
	}

	start := sa[0].t
	if sb[0].t.After(start) {
		start = sb[0].t
	}
	end := sa[len(sa)-1].t
	if sb[len(sb)-1].t.Before(end) {
		end = sb[len(sb)-1].t
	}
	if end.Before(start) {
		return math.Inf(1), nil
	}

	min := math.Inf(1)
	for t := start; !t.After(end); t = t.Add(step) {
		ax, ay, az := positionAt(sa, t)
		bx, by, bz := positionAt(sb, t)
		d := math.Sqrt((ax-bx)*(ax-bx) + (ay-by)*(ay-by) + (az-bz)*(az-bz))
		if d < min {
			min = d
		}
	}
	// make sure the window end itself is sampled
	ax, ay, az := positionAt(sa, end)
	bx, by, bz := positionAt(sb, end)
	if d := math.Sqrt((ax-bx)*(ax-bx) + (ay-by)*(ay-by) + (az-bz)*(az-bz)); d < min {
		min = d
	}

	return min, nil
}
