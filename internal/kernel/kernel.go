// Package kernel models the collaborators the signal/event dispatch
// subsystem assumes but does not own: the task and thread tables, the
// scheduler, the message transport, the interrupt-dispatch helper, and
// the loader's executable-address check. All of it lives outside this
// repository in the real pman service; here it's a narrow interface
// boundary plus fakes for tests.
package kernel

// TaskState mirrors the subset of task states the dispatcher inspects.
type TaskState int

const (
	TaskNothing TaskState = iota
	TaskRunning
	TaskMmapping
	TaskKilling
	TaskKilled
)

// ThreadState mirrors the subset of thread states the dispatcher inspects.
type ThreadState int

const (
	ThrNothing ThreadState = iota
	ThrRunning
	ThrBlocked
	ThrWaiting
	ThrDbg
	ThrKilled
	ThrException
)

// VMMInfo carries the kernel/user address-space split a task operates under.
type VMMInfo struct {
	MaxAddr uintptr
}

// Task is the subset of task-table fields the dispatcher reads or writes.
type Task struct {
	ID              uint32
	State           TaskState
	HandlerEP       uintptr
	ExceptionsPort  uint32
	VMM             VMMInfo
}

// Thread is the subset of thread-table fields the dispatcher reads or writes.
type Thread struct {
	ID         uint32
	TaskID     uint32
	State      ThreadState
	Stack      uintptr
	PendingInt bool
}

// TaskTable looks up tasks by id. Mutation of returned values is visible to
// subsequent Get calls from the same table (tests rely on this).
type TaskTable interface {
	Get(taskID uint32) (*Task, bool)
}

// ThreadTable looks up threads by id, with the same mutation-visibility
// contract as TaskTable.
type ThreadTable interface {
	Get(thrID uint32) (*Thread, bool)
}

// Scheduler activates or parks a thread. Deactivate is called before the
// dispatcher does anything that might reactivate the same thread within the
// same step (see the WAIT handler's ordering requirement with int_signal).
type Scheduler interface {
	Activate(thrID uint32)
	Deactivate(thrID uint32)
}

// PortSender delivers a reply message to a port. portID addresses a message
// port owned by some task; the transport itself (ports, send_msg) is out of
// scope for this subsystem.
type PortSender interface {
	Send(portID uint32, msg any) error
}

// InterruptHelper registers and cancels hardware interrupt notifications for
// PMAN_TASK/INTR waits.
type InterruptHelper interface {
	Signal(taskID uint32, param uint32) error
	SignalRemove(taskID uint32, param uint32)
}

// Loader answers whether an address lies in an executable region of a task,
// used to validate SET_SIGNAL_HANDLER's handler_ep.
type Loader interface {
	IsExecutable(taskID uint32, addr uintptr) bool
}

// Collaborators bundles every external dependency the dispatcher needs,
// constructed once at service start and passed in explicitly — no
// process-wide singletons.
type Collaborators struct {
	Tasks     TaskTable
	Threads   ThreadTable
	Sched     Scheduler
	Ports     PortSender
	Interrupt InterruptHelper
	Loader    Loader
}
