package sigsvc

// Clock is the monotonic 32-bit tick counter with the parity bit that
// extends its ordering past a wraparound (spec.md §4.1).
//
// direction flips whenever Ticks wraps from 0xFFFFFFFF back to 0. Together
// (Direction, Ticks) give a total order long enough that no live timeout
// spans more than one wrap (spec.md invariant I7).
type Clock struct {
	Ticks     uint32
	Direction uint8
}

// Tick advances the counter by one, flipping Direction on wraparound.
func (c *Clock) Tick() {
	prev := c.Ticks
	c.Ticks++
	if c.Ticks < prev {
		c.Direction ^= 1
	}
}
