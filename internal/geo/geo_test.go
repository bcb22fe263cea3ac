package geo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

func traj(points ...[4]float64) []core.Waypoint {
	out := make([]core.Waypoint, len(points))
	for i, p := range points {
		out[i] = core.Waypoint{X: p[0], Y: p[1], Z: p[2], Time: floatSeconds(p[3])}
	}
	return out
}

func floatSeconds(s float64) string {
	return time.Unix(0, 0).UTC().Add(time.Duration(s * float64(time.Second))).Format(time.RFC3339)
}

func TestPathLength(t *testing.T) {
	wps := traj(
		[4]float64{0, 0, 10, 0},
		[4]float64{3, 4, 10, 10},
		[4]float64{3, 10, 10, 20},
	)

	length, err := PathLength(wps)
	require.NoError(t, err)
	assert.InDelta(t, 11.0, length, 1e-9, "5 + 6 ground-track units")

	_, err = PathLength(wps[:1])
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestBoundingBox(t *testing.T) {
	wps := traj(
		[4]float64{-5, 2, 0, 0},
		[4]float64{10, -3, 0, 10},
		[4]float64{1, 8, 0, 20},
	)

	env, err := BoundingBox(wps)
	require.NoError(t, err)

	min, ok := env.Min().XY()
	require.True(t, ok)
	max, ok := env.Max().XY()
	require.True(t, ok)
	assert.Equal(t, -5.0, min.X)
	assert.Equal(t, -3.0, min.Y)
	assert.Equal(t, 10.0, max.X)
	assert.Equal(t, 8.0, max.Y)
}

func TestMinSeparationCrossingPaths(t *testing.T) {
	// both trajectories pass through (50,50,10) at t=10
	a := traj(
		[4]float64{0, 0, 10, 0},
		[4]float64{100, 100, 10, 20},
	)
	b := traj(
		[4]float64{100, 0, 10, 0},
		[4]float64{0, 100, 10, 20},
	)

	min, err := MinSeparation(a, b, time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, min, 1e-9)
}

func TestMinSeparationParallelPaths(t *testing.T) {
	a := traj(
		[4]float64{0, 0, 10, 0},
		[4]float64{100, 0, 10, 20},
	)
	b := traj(
		[4]float64{0, 30, 10, 0},
		[4]float64{100, 30, 10, 20},
	)

	min, err := MinSeparation(a, b, time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, min, 1e-9)
}

func TestMinSeparationDisjointTimeWindows(t *testing.T) {
	a := traj(
		[4]float64{0, 0, 10, 0},
		[4]float64{10, 0, 10, 10},
	)
	b := traj(
		[4]float64{0, 0, 10, 100},
		[4]float64{10, 0, 10, 110},
	)

	min, err := MinSeparation(a, b, time.Second)
	require.NoError(t, err)
	assert.True(t, math.IsInf(min, 1))
}

func TestMinSeparationUnparseableTime(t *testing.T) {
	a := traj([4]float64{0, 0, 0, 0}, [4]float64{1, 1, 1, 1})
	b := []core.Waypoint{
		{X: 0, Y: 0, Z: 0, Time: "not-a-time"},
		{X: 1, Y: 1, Z: 1, Time: "also-bad"},
	}

	_, err := MinSeparation(a, b, time.Second)
	assert.Error(t, err)
}
