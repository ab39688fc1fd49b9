// Package sigsvc implements the signal and event dispatch subsystem of a
// process/memory-manager service: per-thread wait registries, a
// wraparound-safe global timeout queue, and the matching/delivery engine
// that turns a WAIT plus a matching EVENT (or elapsed timeout) into a reply
// message, optionally reactivating the waiting thread.
//
// The service is single-threaded cooperative by design (spec.md §5): every
// exported method here must be called from one goroutine at a time, with
// no call re-entering the service from within another call.
package sigsvc

import (
	catrate "github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/ahamid/pmansignal/internal/kernel"
	"github.com/ahamid/pmansignal/internal/sigsvc/proto"
)

// Service owns every piece of mutable state the subsystem needs: the tick
// clock, the record arena, the per-thread/registered-threads lists, and the
// global timeout queue. It's constructed once at service start and passed
// around explicitly — spec.md §9 is explicit that there should be no
// process-wide singleton for this state.
type Service struct {
	clock   Clock
	arena   *arena
	threads *threadRegistry
	queue   timeoutQueue

	kernel  kernel.Collaborators
	log     *logiface.Logger[*stumpy.Event]
	limiter *catrate.Limiter
}

// New constructs a Service. log may be nil, in which case a no-op logger is
// used (mirrors the teacher's NewNoOpLogger default).
func New(collab kernel.Collaborators, log *logiface.Logger[*stumpy.Event]) *Service {
	if log == nil {
		log = stumpy.L.New()
	}
	return &Service{
		arena:   newArena(),
		threads: newThreadRegistry(),
		queue:   timeoutQueue{},
		kernel:  collab,
		log:     log,
	}
}

// SetRateLimiter installs a per-requesting-task rate limiter on WAIT
// commands (spec.md §2's ambient rate-limiting addition), bounding a single
// task's ability to flood SIGNALS_PORT with WAIT requests. A nil limiter
// (the default) disables the check. DISCARD carries no requesting-task
// identity (spec.md §4.6.2) and so is never subject to this limit.
func (s *Service) SetRateLimiter(l *catrate.Limiter) {
	s.limiter = l
}

// Ticks returns the current tick counter, for tests and observability.
func (s *Service) Ticks() uint32 { return s.clock.Ticks }

// Direction returns the current parity bit, for tests and observability.
func (s *Service) Direction() uint8 { return s.clock.Direction }

// reply sends a signal_cmd to a port, logging failures — the transport is
// an out-of-scope collaborator (spec.md §1), so a send error here is
// logged and swallowed rather than propagated: there's no sane recovery
// action for the dispatch loop to take on a broken reply port.
func (s *Service) reply(portID uint32, msg proto.SignalCmd) {
	if err := s.kernel.Ports.Send(portID, msg); err != nil {
		s.log.Warning().Err(err).Uint64(`port`, uint64(portID)).Log(`failed to deliver signal reply`)
	}
}

func (s *Service) replyHandler(portID uint32, msg proto.SetSignalHandlerRes) {
	if err := s.kernel.Ports.Send(portID, msg); err != nil {
		s.log.Warning().Err(err).Uint64(`port`, uint64(portID)).Log(`failed to deliver handler/stack reply`)
	}
}
