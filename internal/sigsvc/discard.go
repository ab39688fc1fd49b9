package sigsvc

import "github.com/ahamid/pmansignal/internal/sigsvc/proto"

// Discard handles DISCARD_SIGNAL (spec.md §4.6.2). Scans the thread's list
// for the first record structurally equal on (task, event_type,
// signal_param, id, signal_port). If found and it was the blocking signal,
// clears that and reactivates the thread; the record is unlinked and
// freed. No reply is ever sent — failures are silent per spec.md §7,
// satisfying law L2 (discard of a non-matching descriptor is a no-op).
func (s *Service) Discard(req proto.DiscardSignal) {
	ts, ok := s.threads.lookup(req.ThrID)
	if !ok {
		return
	}

	for id := ts.first; id != 0; {
		r := s.arena.get(id)
		next := r.tnext
		if r.matches(req.Task, req.EventType, req.SignalParam, req.ID, req.SignalPort) {
			if ts.blockingSignal == id {
				ts.blockingSignal = 0
				s.kernel.Sched.Activate(req.ThrID)
			}
			if !r.infinite {
				s.queue.remove(s.arena, id)
			}
			if r.eventType == proto.EventIntr && r.task == proto.PmanTask {
				s.kernel.Interrupt.SignalRemove(r.task, r.signalParam)
			}
			unlinkThread(s.threads, s.arena, ts, id)
			s.arena.free(id)
			return
		}
		id = next
	}
}
