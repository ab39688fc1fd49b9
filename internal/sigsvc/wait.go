package sigsvc

import (
	"errors"

	"github.com/ahamid/pmansignal/internal/kernel"
	"github.com/ahamid/pmansignal/internal/sigsvc/proto"
)

// Wait handles WAIT_FOR_SIGNAL / WAIT_FOR_SIGNAL_NBLOCK (spec.md §4.6.1).
// It validates in order, replying FAILED on the requester's signal_port on
// the first failure with no other side effect persisting (spec.md §7).
func (s *Service) Wait(req proto.WaitForSignal) {
	if s.limiter != nil {
		if _, ok := s.limiter.Allow(req.RequestingTask); !ok {
			s.rejectWait(req, ErrRateLimited)
			return
		}
	}

	reqTask, ok := s.kernel.Tasks.Get(req.RequestingTask)
	if !ok || reqTask.State == kernel.TaskMmapping {
		s.rejectWait(req, ErrBadTask)
		return
	}

	if req.ThrID >= proto.MaxThr {
		s.rejectWait(req, ErrBadThread)
		return
	}
	thr, ok := s.kernel.Threads.Get(req.ThrID)
	if !ok || thr.TaskID != req.RequestingTask || !validThreadStateForWait(thr.State) {
		s.rejectWait(req, ErrBadThread)
		return
	}

	blocking := req.Blocking()
	ts := s.threads.stateFor(req.ThrID)

	if blocking && ts.blockingSignal != 0 {
		s.rejectWait(req, ErrAlreadyBlocking)
		return
	}
	if req.Timeout == proto.Repeating && blocking {
		s.rejectWait(req, ErrBadTimeoutForBlocking)
		return
	}

	// Build the record before the interrupt-registration hook so that, on
	// rejection, there is an allocated record to free (spec.md §9: the
	// source's bug here was freeing the incoming command buffer instead —
	// not replicated).
	id, r := s.arena.alloc()
	r.thread = req.ThrID
	r.eventType = req.EventType
	r.id = req.ID
	r.task = req.Task
	r.signalParam = req.SignalParam
	r.signalPort = req.SignalPort

	switch req.Timeout {
	case proto.Infinite:
		r.infinite = true
	case proto.Repeating:
		r.infinite = true
		r.repeating = true
	default:
		abs, dir := computeAbsoluteTimeout(req.Timeout, s.clock.Ticks, s.clock.Direction)
		r.timeout = abs
		r.dir = dir
	}

	pushFrontThread(s.threads, s.arena, ts, id)
	if !r.infinite {
		s.queue.insert(s.arena, s.clock.Direction, id)
	}

	if blocking {
		// Deactivate before the int_signal hook below, so a same-step
		// interrupt fires a thread that is already parked (spec.md
		// §4.6.1's explicit ordering requirement).
		ts.blockingSignal = id
		s.kernel.Sched.Deactivate(req.ThrID)
	}

	if req.EventType == proto.EventIntr && req.Task == proto.PmanTask {
		if err := s.kernel.Interrupt.Signal(req.Task, req.SignalParam); err != nil {
			if blocking {
				ts.blockingSignal = 0
				s.kernel.Sched.Activate(req.ThrID)
			}
			if !r.infinite {
				s.queue.remove(s.arena, id)
			}
			unlinkThread(s.threads, s.arena, ts, id)
			s.arena.free(id)
			s.rejectWait(req, errors.Join(ErrInterruptRegistration, err))
			return
		}
	}
}

// rejectWait logs why a WAIT was rejected and replies FAILED on the
// requester's signal_port.
func (s *Service) rejectWait(req proto.WaitForSignal, err error) {
	s.log.Debug().Err(err).Uint64(`task`, uint64(req.RequestingTask)).Uint64(`thread`, uint64(req.ThrID)).Log(`WAIT rejected`)
	s.replyFailed(req)
}

func validThreadStateForWait(st kernel.ThreadState) bool {
	switch st {
	case kernel.ThrRunning, kernel.ThrBlocked, kernel.ThrWaiting, kernel.ThrDbg:
		return true
	default:
		return false
	}
}

func (s *Service) replyFailed(req proto.WaitForSignal) {
	s.reply(req.SignalPort, proto.SignalCmd{
		Command:   proto.SignalTag,
		ThrID:     req.ThrID,
		EventType: req.EventType,
		ID:        req.ID,
		Task:      req.Task,
		Res:       0,
		Ret:       proto.Failed,
	})
}
