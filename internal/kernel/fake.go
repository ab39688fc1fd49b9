package kernel

import "sync"

// Fake is an in-memory Collaborators implementation for tests. It records
// every Activate, Deactivate, Send and interrupt call, each kind in its own
// slice in call order; the relative order of calls of different kinds is
// not recorded.
type Fake struct {
	mu sync.Mutex

	tasks   map[uint32]*Task
	threads map[uint32]*Thread

	Activations   []uint32
	Deactivations []uint32
	Sent          []SentMessage

	// InterruptAccept controls the return value of Signal; keyed by
	// (taskID, param). Missing entries default to accepted (nil error).
	InterruptAccept map[[2]uint32]error
	InterruptCalls  []InterruptCall
	RemovedCalls    []InterruptCall

	// ExecRegions marks (taskID, addr) as executable for Loader.IsExecutable.
	ExecRegions map[[2]uint64]bool
}

// SentMessage captures one PortSender.Send call.
type SentMessage struct {
	PortID uint32
	Msg    any
}

// InterruptCall captures one InterruptHelper call.
type InterruptCall struct {
	TaskID uint32
	Param  uint32
}

// NewFake builds an empty Fake with no tasks or threads registered.
func NewFake() *Fake {
	return &Fake{
		tasks:           make(map[uint32]*Task),
		threads:         make(map[uint32]*Thread),
		InterruptAccept: make(map[[2]uint32]error),
		ExecRegions:     make(map[[2]uint64]bool),
	}
}

// AddTask registers a task, returning it so the caller can mutate State etc.
func (f *Fake) AddTask(t *Task) *Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = t
	return t
}

// AddThread registers a thread, returning it so the caller can mutate fields.
func (f *Fake) AddThread(t *Thread) *Thread {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threads[t.ID] = t
	return t
}

func (f *Fake) Get(taskID uint32) (*Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	return t, ok
}

// GetThread looks up a thread by id. Named distinctly from Get so *Fake can
// satisfy both TaskTable and ThreadTable without ambiguity at call sites
// that hold a Fake directly; the table-typed fields in Collaborators use
// thin adapters (see TaskTableOf/ThreadTableOf).
func (f *Fake) GetThread(thrID uint32) (*Thread, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[thrID]
	return t, ok
}

// TaskTableOf adapts a Fake to TaskTable.
func TaskTableOf(f *Fake) TaskTable { return taskTableAdapter{f} }

// ThreadTableOf adapts a Fake to ThreadTable.
func ThreadTableOf(f *Fake) ThreadTable { return threadTableAdapter{f} }

type taskTableAdapter struct{ f *Fake }

func (a taskTableAdapter) Get(taskID uint32) (*Task, bool) { return a.f.Get(taskID) }

type threadTableAdapter struct{ f *Fake }

func (a threadTableAdapter) Get(thrID uint32) (*Thread, bool) { return a.f.GetThread(thrID) }

func (f *Fake) Activate(thrID uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Activations = append(f.Activations, thrID)
	if th, ok := f.threads[thrID]; ok {
		th.State = ThrRunning
	}
}

func (f *Fake) Deactivate(thrID uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deactivations = append(f.Deactivations, thrID)
	if th, ok := f.threads[thrID]; ok {
		th.State = ThrBlocked
	}
}

func (f *Fake) Send(portID uint32, msg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, SentMessage{PortID: portID, Msg: msg})
	return nil
}

func (f *Fake) Signal(taskID uint32, param uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InterruptCalls = append(f.InterruptCalls, InterruptCall{taskID, param})
	return f.InterruptAccept[[2]uint32{taskID, param}]
}

func (f *Fake) SignalRemove(taskID uint32, param uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RemovedCalls = append(f.RemovedCalls, InterruptCall{taskID, param})
}

func (f *Fake) IsExecutable(taskID uint32, addr uintptr) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ExecRegions[[2]uint64{uint64(taskID), uint64(addr)}]
}

// Collaborators returns a kernel.Collaborators wired to this Fake.
func (f *Fake) Collaborators() Collaborators {
	return Collaborators{
		Tasks:     TaskTableOf(f),
		Threads:   ThreadTableOf(f),
		Sched:     f,
		Ports:     f,
		Interrupt: f,
		Loader:    f,
	}
}
