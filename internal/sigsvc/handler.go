package sigsvc

import (
	"github.com/ahamid/pmansignal/internal/kernel"
	"github.com/ahamid/pmansignal/internal/sigsvc/proto"
)

// SetSignalHandler handles SET_SIGNAL_HANDLER (spec.md §4.6.3): the task
// owning ThrID must exist and not be in {NOTHING, KILLED, KILLING};
// handler_ep must be null or point into an executable region of the task;
// a non-null stack requires a non-null handler_ep. On success, handler_ep
// and exceptions_port are stored on the task.
func (s *Service) SetSignalHandler(req proto.SetSignalHandler) {
	thr, ok := s.kernel.Threads.Get(req.ThrID)
	if !ok {
		s.rejectHandler(req, ErrBadThread)
		return
	}
	task, ok := s.kernel.Tasks.Get(thr.TaskID)
	if !ok || task.State == kernel.TaskNothing || task.State == kernel.TaskKilled || task.State == kernel.TaskKilling {
		s.rejectHandler(req, ErrTaskStateForHandler)
		return
	}
	if req.HandlerEP != 0 && !s.kernel.Loader.IsExecutable(task.ID, req.HandlerEP) {
		s.rejectHandler(req, ErrBadAddress)
		return
	}
	if req.Stack != 0 && req.HandlerEP == 0 {
		s.rejectHandler(req, ErrBadAddress)
		return
	}

	task.HandlerEP = req.HandlerEP
	task.ExceptionsPort = req.ExceptionsPort
	s.replyHandlerResult(req.RetPort, req.ThrID, proto.OK)
}

func (s *Service) rejectHandler(req proto.SetSignalHandler, err error) {
	s.log.Debug().Err(err).Uint64(`thread`, uint64(req.ThrID)).Log(`SET_SIGNAL_HANDLER rejected`)
	s.replyHandlerResult(req.RetPort, req.ThrID, proto.Failed)
}

// SetSignalStack handles SET_SIGNAL_STACK (spec.md §4.6.4): the target
// thread must exist, belong to the requesting task (implicitly, via its own
// task — spec.md's message shape has no separate requesting-task field
// here either), and not be in {NOTHING, KILLED, EXCEPTION}; a non-null
// stack must lie at or above the task's vmm_info.max_addr.
func (s *Service) SetSignalStack(req proto.SetSignalStack) {
	thr, ok := s.kernel.Threads.Get(req.ThrID)
	if !ok || thr.State == kernel.ThrNothing || thr.State == kernel.ThrKilled || thr.State == kernel.ThrException {
		s.rejectStack(req, ErrThreadStateForStack)
		return
	}
	if req.Stack != 0 {
		task, ok := s.kernel.Tasks.Get(thr.TaskID)
		if !ok || req.Stack < task.VMM.MaxAddr {
			s.rejectStack(req, ErrBadAddress)
			return
		}
	}

	thr.Stack = req.Stack
	s.replyHandlerResult(req.RetPort, req.ThrID, proto.OK)
}

func (s *Service) rejectStack(req proto.SetSignalStack, err error) {
	s.log.Debug().Err(err).Uint64(`thread`, uint64(req.ThrID)).Log(`SET_SIGNAL_STACK rejected`)
	s.replyHandlerResult(req.RetPort, req.ThrID, proto.Failed)
}

// replyHandlerResult replies to both SET_SIGNAL_HANDLER and SET_SIGNAL_STACK
// with the SetSignalHandlerRes shape, tagged CmdSetSignalHandler for both —
// the source's set_signal_stack reuses the same res.command (signals.c,
// set_signal_stack) rather than defining a distinct reply tag.
func (s *Service) replyHandlerResult(retPort, thrID uint32, result proto.Outcome) {
	s.replyHandler(retPort, proto.SetSignalHandlerRes{
		Command: proto.CmdSetSignalHandler,
		ThrID:   thrID,
		Result:  result,
	})
}
