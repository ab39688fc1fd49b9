package sigsvc

import "github.com/ahamid/pmansignal/internal/sigsvc/proto"

// RemoveThreadSignals is the bulk cleanup operation spec.md §4.8 calls
// remove_thr_signals, invoked by the caller when a thread is being torn
// down. It repeatedly unlinks and frees the thread's first record until
// its list is empty; unlinkThread clears blockingSignal and unregisters
// the thread from the registered-threads list as a side effect once empty.
// No reactivation is requested — the thread is being destroyed, not woken.
func (s *Service) RemoveThreadSignals(thrID uint32) {
	ts, ok := s.threads.lookup(thrID)
	if !ok {
		return
	}
	for ts.first != 0 {
		id := ts.first
		r := s.arena.get(id)
		if !r.infinite {
			s.queue.remove(s.arena, id)
		}
		if r.eventType == proto.EventIntr && r.task == proto.PmanTask {
			s.kernel.Interrupt.SignalRemove(r.task, r.signalParam)
		}
		unlinkThread(s.threads, s.arena, ts, id)
		s.arena.free(id)
	}
}
