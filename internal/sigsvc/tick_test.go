package sigsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_Tick(t *testing.T) {
	var c Clock
	c.Tick()
	assert.Equal(t, uint32(1), c.Ticks)
	assert.Equal(t, uint8(0), c.Direction)
}

func TestClock_Tick_Wraparound(t *testing.T) {
	c := Clock{Ticks: 0xFFFFFFFF, Direction: 0}
	c.Tick()
	assert.Equal(t, uint32(0), c.Ticks)
	assert.Equal(t, uint8(1), c.Direction)
}

func TestClock_Tick_SecondWraparoundFlipsBack(t *testing.T) {
	c := Clock{Ticks: 0xFFFFFFFF, Direction: 1}
	c.Tick()
	assert.Equal(t, uint32(0), c.Ticks)
	assert.Equal(t, uint8(0), c.Direction)
}
