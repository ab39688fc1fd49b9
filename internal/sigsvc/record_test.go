package sigsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahamid/pmansignal/internal/sigsvc/proto"
)

func TestArena_AllocReusesFreedSlots(t *testing.T) {
	a := newArena()

	id1, r1 := a.alloc()
	r1.task = 7
	id2, _ := a.alloc()
	assert.NotEqual(t, id1, id2)

	a.free(id1)
	id3, r3 := a.alloc()
	assert.Equal(t, id1, id3, "freed slot should be reused before growing the arena")
	assert.Equal(t, uint32(0), r3.task, "reused slot must be zeroed")
}

func TestArena_GetNilForZero(t *testing.T) {
	a := newArena()
	assert.Nil(t, a.get(0))
}

func TestRecord_Matches(t *testing.T) {
	r := record{
		task:        1,
		eventType:   proto.EventIntr,
		signalParam: 42,
		id:          5,
		signalPort:  9,
	}

	assert.True(t, r.matches(1, proto.EventIntr, 42, 5, 9))
	assert.False(t, r.matches(2, proto.EventIntr, 42, 5, 9), "task must match exactly")
	assert.False(t, r.matches(1, proto.EventSleep, 42, 5, 9), "event type must match exactly")
	assert.False(t, r.matches(1, proto.EventIntr, 43, 5, 9), "signal_param has no wildcarding for DISCARD")
	assert.False(t, r.matches(1, proto.EventIntr, 42, 6, 9), "id must match exactly")
	assert.False(t, r.matches(1, proto.EventIntr, 42, 5, 10), "signal_port must match exactly")
}
