package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishFansOutToAllSinks(t *testing.T) {
	c := New()
	var got []Event
	c.Subscribe(func(ev Event) { got = append(got, ev) })

	c.Publish(StatusGPSLost, 0, "GPS signal lost")

	require.Len(t, got, 1)
	assert.Equal(t, StatusGPSLost, got[0].Status)
	assert.Equal(t, "GPS signal lost", got[0].Message)
	assert.NotEqual(t, "", got[0].ID.String())
}

func TestStatusStringCoversKnownValues(t *testing.T) {
	assert.Equal(t, "connection-down", StatusConnectionDown.String())
	assert.Equal(t, "unknown", Status(999).String())
}
