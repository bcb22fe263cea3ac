package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

func TestParseWaypoint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    core.Waypoint
		wantErr bool
	}{
		{
			name:  "plain",
			input: "10,20,30,5",
			want:  core.Waypoint{X: 10, Y: 20, Z: 30, Time: "5"},
		},
		{
			name:  "spaces and quoted time",
			input: ` 1.5, -2.5, 0, "2026-03-01T12:00:00Z" `,
			want:  core.Waypoint{X: 1.5, Y: -2.5, Z: 0, Time: "2026-03-01T12:00:00Z"},
		},
		{name: "too few fields", input: "1,2,3", wantErr: true},
		{name: "non-numeric coordinate", input: "a,2,3,0", wantErr: true},
		{name: "unparseable time", input: "1,2,3,later", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWaypoint(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGeoWaypointRelativeToOrigin(t *testing.T) {
	origin, err := core.OriginFromGeographic(48.8566, 2.3522)
	require.NoError(t, err)

	wp, err := ParseGeoWaypoint("48.8566,2.3522,120,0", origin)
	require.NoError(t, err)
	assert.InDelta(t, 0, wp.X, 1e-6, "origin maps to local zero")
	assert.InDelta(t, 0, wp.Y, 1e-6)
	assert.Equal(t, 120.0, wp.Z)

	_, err = ParseGeoWaypoint("95,0,0,0", origin)
	assert.Error(t, err, "latitude out of range")
}

func TestParseIndex(t *testing.T) {
	i, err := ParseIndex(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	_, err = ParseIndex("three")
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
}
