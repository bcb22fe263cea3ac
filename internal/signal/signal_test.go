package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_OrderAndDrain(t *testing.T) {
	q := NewQueue()
	q.Info("waypoint added")
	q.Warn("timestamp missing")
	q.Info("flight committed")

	assert.Equal(t, 3, q.Len())

	got := q.Drain()
	assert.Len(t, got, 3)
	assert.Equal(t, LevelInfo, got[0].Level)
	assert.Equal(t, "waypoint added", got[0].Message)
	assert.Equal(t, LevelWarn, got[1].Level)
	assert.Equal(t, "flight committed", got[2].Message)

	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}
