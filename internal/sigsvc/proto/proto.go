// Package proto defines the wire messages carried on the two inbound ports
// of the signal/event dispatch subsystem, and the replies it sends back.
package proto

// Timeout sentinels, carried in WaitForSignal.Timeout.
const (
	// Infinite marks a wait with no timeout; never enters the global queue.
	Infinite uint32 = 0xFFFFFFFF
	// Repeating marks a wait that survives delivery and keeps firing.
	Repeating uint32 = 0xFFFFFFFE
)

// Matcher sentinels.
const (
	// GlobalEvent broadcasts an EVENT to every registered thread.
	GlobalEvent uint32 = 0
	// ParamIgnore wildcards a record's signal_param against any event param,
	// compared on the low 16 bits per the source's cast contract.
	ParamIgnore uint32 = 0xFFFFFFFF
)

// PmanTask is the well-known task id of the process/memory-manager task
// itself; PMAN_SLEEP and PMAN_INTR (spec.md §6) are just EventSleep and
// EventIntr used with task == PmanTask, not separate values.
const PmanTask uint32 = 1

// Validation bounds: MaxThr bounds WAIT's thr_id; MaxTsk bounds the target
// task id of a non-global EVENT.
const (
	MaxThr uint32 = 4096
	MaxTsk uint32 = 1024
)

// EventType symbolically names the kind of condition a signal waits for.
type EventType uint32

const (
	EventSleep EventType = iota
	EventIntr
	EventUser
)

// Outcome is the result code carried on a signal_cmd reply.
type Outcome uint32

const (
	OK Outcome = iota
	Timeout
	Failed
)

// Command is the tagged union carried on SIGNALS_PORT.
type Command int

const (
	CmdWaitForSignal Command = iota
	CmdWaitForSignalNBlock
	CmdDiscardSignal
	CmdSetSignalHandler
	CmdSetSignalStack
)

// WaitForSignal is WAIT_FOR_SIGNAL / WAIT_FOR_SIGNAL_NBLOCK.
//
// RequestingTask is the task that sent this command, supplied by the
// message-transport envelope (get_msg identifies the sender; spec.md §6
// treats the transport as an out-of-scope collaborator, so this field
// models what that envelope hands the dispatcher). Task is a distinct,
// user-supplied matcher field — the target task/event the wait is for —
// which is why both fields exist side by side.
type WaitForSignal struct {
	Cmd            Command // CmdWaitForSignal or CmdWaitForSignalNBlock
	RequestingTask uint32
	ThrID          uint32
	EventType      EventType
	ID             uint32
	Task           uint32
	SignalParam    uint32
	SignalPort     uint32
	// Timeout is a relative tick count, Infinite, or Repeating.
	Timeout uint32
}

// Blocking reports whether this request should park the requesting thread.
func (w WaitForSignal) Blocking() bool { return w.Cmd == CmdWaitForSignal }

// DiscardSignal is DISCARD_SIGNAL. Task here is the matcher's target task
// (mirrors record.task), not a requesting-task identity — DISCARD has no
// "requesting task" validation step in spec.md §4.6.2.
type DiscardSignal struct {
	ThrID       uint32
	Task        uint32
	EventType   EventType
	SignalParam uint32
	ID          uint32
	SignalPort  uint32
}

// SetSignalHandler is SET_SIGNAL_HANDLER. The target task is derived from
// ThrID via the thread table (spec.md §6's message shape carries no
// separate task field for this command).
type SetSignalHandler struct {
	ThrID          uint32
	HandlerEP      uintptr
	Stack          uintptr
	ExceptionsPort uint32
	RetPort        uint32
}

// SetSignalStack is SET_SIGNAL_STACK.
type SetSignalStack struct {
	ThrID   uint32
	Stack   uintptr
	RetPort uint32
}

// Event is EVENT, carried on EVENTS_PORT.
type Event struct {
	Task      uint32 // GlobalEvent broadcasts
	EventType EventType
	Param     uint32
	EventRes  uint32
}

// SignalCmd is the reply sent to a matched or timed-out wait's SignalPort.
type SignalCmd struct {
	Command   Command // always logically SIGNAL; kept as a constant tag below
	ThrID     uint32
	EventType EventType
	ID        uint32
	Task      uint32
	Res       uint32
	Ret       Outcome
}

// SignalTag marks SignalCmd.Command for SignalCmd values (spec.md's SIGNAL).
const SignalTag Command = -1

// SetSignalHandlerRes is the reply to SET_SIGNAL_HANDLER / SET_SIGNAL_STACK.
type SetSignalHandlerRes struct {
	Command Command
	ThrID   uint32
	Result  Outcome
}
