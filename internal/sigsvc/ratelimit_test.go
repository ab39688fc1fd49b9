package sigsvc

import (
	"testing"
	"time"

	catrate "github.com/joeycumines/go-catrate"
)

// zeroAllowanceLimiter returns a limiter whose single-event-per-second
// budget for task 1 has already been spent, so the next Allow call for
// that category reports false.
func zeroAllowanceLimiter(t *testing.T) *catrate.Limiter {
	t.Helper()
	l := catrate.NewLimiter(map[time.Duration]int{time.Second: 1})
	l.Allow(uint32(1))
	return l
}
