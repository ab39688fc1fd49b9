package sigsvc

import "github.com/ahamid/pmansignal/internal/sigsvc/proto"

// matchesEvent implements the matcher predicate of spec.md §4.7: the task
// check is skipped for a GLOBAL_EVENT broadcast (the caller has already
// restricted iteration to the right threads in that case); event_type must
// match exactly; signal_param matches either via the PARAM_IGNORE wildcard
// or by equality with the event param, both compared on the low 16 bits.
func matchesEvent(r *record, ev proto.Event) bool {
	if ev.Task != proto.GlobalEvent && r.task != ev.Task {
		return false
	}
	if r.eventType != ev.EventType {
		return false
	}
	if uint16(r.signalParam) == uint16(proto.ParamIgnore) {
		return true
	}
	return uint16(r.signalParam) == uint16(ev.Param)
}

// Event handles EVENT (spec.md §4.6.5 / §4.7). A GLOBAL_EVENT broadcasts
// across every registered thread; otherwise only threads belonging to the
// addressed task are considered. Per-thread iteration captures next before
// any possible removal, so delivery is safe to unlink mid-walk.
func (s *Service) Event(ev proto.Event) {
	for _, thrID := range s.candidateThreads(ev.Task) {
		ts, ok := s.threads.lookup(thrID)
		if !ok {
			continue
		}
		for id := ts.first; id != 0; {
			r := s.arena.get(id)
			next := r.tnext
			if matchesEvent(r, ev) {
				s.deliverRecord(id, ev.EventRes, proto.OK)
			}
			id = next
		}
	}
}

// candidateThreads returns the registered thread ids an EVENT should be
// matched against: all of them for GLOBAL_EVENT, or only those owned by
// the addressed task otherwise. A targeted task id at or past MaxTsk
// matches nothing (signals.c's send_event bails out the same way on
// task >= MAX_TSK before ever calling tsk_get).
func (s *Service) candidateThreads(task uint32) []uint32 {
	all := s.threads.registeredThreadIDs()
	if task == proto.GlobalEvent {
		return all
	}
	if task >= proto.MaxTsk {
		return nil
	}
	ids := all[:0:0]
	for _, thrID := range all {
		if thr, ok := s.kernel.Threads.Get(thrID); ok && thr.TaskID == task {
			ids = append(ids, thrID)
		}
	}
	return ids
}

// TimerTick advances the clock by one tick and fires every record at the
// head of the global queue whose epoch and absolute tick have now arrived
// (spec.md §4.7 "Timer-tick sweep"). Records with dir == direction &&
// timeout < ticks are "impossible" under invariant I7 but are drained
// identically rather than left to accumulate, per spec.md §4.7's
// defensive-handling note.
func (s *Service) TimerTick() {
	s.clock.Tick()
	for {
		h := s.queue.head
		if h == 0 {
			return
		}
		r := s.arena.get(h)
		if r.dir != s.clock.Direction {
			return
		}
		if r.timeout != s.clock.Ticks && int32(r.timeout-s.clock.Ticks) >= 0 {
			return
		}

		outcome := proto.Timeout
		if r.task == proto.PmanTask && r.eventType == proto.EventSleep {
			outcome = proto.OK
		}
		s.deliverRecord(h, 0, outcome)
	}
}

// deliverRecord performs the five delivery steps of spec.md §4.7 for a
// single matching or timed-out record: send the reply, set pending_int if
// the task has a handler, reactivate the thread if this was its blocking
// signal, and remove+free the record unless it's REPEATING.
func (s *Service) deliverRecord(id recordID, res uint32, outcome proto.Outcome) {
	r := s.arena.get(id)
	thrID := r.thread

	s.reply(r.signalPort, proto.SignalCmd{
		Command:   proto.SignalTag,
		ThrID:     thrID,
		EventType: r.eventType,
		ID:        r.id,
		Task:      r.task,
		Res:       res,
		Ret:       outcome,
	})

	if thr, ok := s.kernel.Threads.Get(thrID); ok {
		if task, ok := s.kernel.Tasks.Get(thr.TaskID); ok && task.HandlerEP != 0 {
			thr.PendingInt = true
		}
	}

	ts, ok := s.threads.lookup(thrID)
	if !ok {
		return
	}

	if ts.blockingSignal == id {
		if r.repeating {
			// blocking+REPEATING is rejected at WAIT (spec.md §4.6.1 rule
			// 4); reaching here means that invariant was violated upstream.
			panic("sigsvc: REPEATING record held a blocking_signal role")
		}
		ts.blockingSignal = 0
		s.kernel.Sched.Activate(thrID)
	}

	if !r.repeating {
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
