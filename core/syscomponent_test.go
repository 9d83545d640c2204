//go:build unit
// +build unit

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEngineInfo(t *testing.T) {
	s := SCWithUnimplementedContainer()
	defer s.TearDown()

	info := s.GetEngineInfo()
	assert.NotNil(t, info)
	assert.Equal(t, MockMaxQubits, info.MaxQubits)
	assert.Equal(t, MockMaxShots, info.MaxShots)
	assert.Equal(t, "statevector", info.Type)
	assert.Equal(t, Available, info.Status)
}

func TestEngineStatusString(t *testing.T) {
	assert.Equal(t, "Available", Available.String())
	assert.Equal(t, "Unavailable", Unavailable.String())
	assert.Equal(t, "QueuePaused", QueuePaused.String())
}

func TestChannelsCheck(t *testing.T) {
	c := NewChannels()
	assert.Nil(t, c.Check())
	empty := &Channels{}
	assert.EqualError(t, empty.Check(), "DBChan is nil")
}
