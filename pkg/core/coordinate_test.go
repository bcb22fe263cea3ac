package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGeographic(t *testing.T) {
	origin, err := OriginFromGeographic(51.5, -0.12)
	require.NoError(t, err)

	// the origin itself projects to (0, 0)
	wp, err := FromGeographic(origin, 51.5, -0.12, 120, "2026-08-01T10:00:00Z")
	require.NoError(t, err)
	assert.InDelta(t, 0, wp.X, 0.001)
	assert.InDelta(t, 0, wp.Y, 0.001)
	assert.Equal(t, 120.0, wp.Z)
	assert.Equal(t, "2026-08-01T10:00:00Z", wp.Time)

	// a point east of the origin has positive X
	east, err := FromGeographic(origin, 51.5, -0.11, 0, "0")
	require.NoError(t, err)
	assert.Greater(t, east.X, 0.0)

	// a point north of the origin has positive Y
	north, err := FromGeographic(origin, 51.51, -0.12, 0, "0")
	require.NoError(t, err)
	assert.Greater(t, north.Y, 0.0)
}

func TestFromGeographic_Invalid(t *testing.T) {
	origin := Origin{}

	_, err := FromGeographic(origin, 91, 0, 0, "0")
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	_, err = FromGeographic(origin, 0, 181, 0, "0")
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	_, err = OriginFromGeographic(-91, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}
