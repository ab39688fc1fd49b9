package sigsvc

// noThread is the "no sibling"/"no thread" sentinel for registered-threads
// list links, disjoint from any valid thr_id under proto.MaxThr.
const noThread = ^uint32(0)

// threadState is the per-thread signal state spec.md §3 describes: the
// intrusive wait-list head, the optional blocking signal, and the
// registered-threads sibling links. pendingInt and stack are not kept here:
// deliver.go and SetSignalStack write them directly on the kernel thread.
type threadState struct {
	thrID uint32

	first          recordID // head of this thread's wait list (push-front)
	blockingSignal recordID

	registered  bool
	prev, next  uint32 // sibling links into the registered-threads list
}

// threadRegistry owns all threadState values and the flat registered-threads
// list (spec.md §4.5), keyed by thr_id.
type threadRegistry struct {
	byID map[uint32]*threadState
	head uint32 // noThread if the registered-threads list is empty
	tail uint32
}

func newThreadRegistry() *threadRegistry {
	return &threadRegistry{
		byID: make(map[uint32]*threadState),
		head: noThread,
		tail: noThread,
	}
}

// stateFor returns the threadState for thrID, creating an empty one if
// necessary. Creating one does not register it — registration happens only
// when its wait list becomes non-empty (invariant I3).
func (tr *threadRegistry) stateFor(thrID uint32) *threadState {
	ts, ok := tr.byID[thrID]
	if !ok {
		ts = &threadState{thrID: thrID, prev: noThread, next: noThread}
		tr.byID[thrID] = ts
	}
	return ts
}

// lookup returns the threadState for thrID if one has ever been created,
// without creating one.
func (tr *threadRegistry) lookup(thrID uint32) (*threadState, bool) {
	ts, ok := tr.byID[thrID]
	return ts, ok
}

// register adds ts to the registered-threads list if it isn't already
// there. Called whenever a record is pushed onto a previously-empty list.
func (tr *threadRegistry) register(ts *threadState) {
	if ts.registered {
		return
	}
	ts.registered = true
	ts.prev = tr.tail
	ts.next = noThread
	if tr.tail != noThread {
		tr.byID[tr.tail].next = ts.thrID
	} else {
		tr.head = ts.thrID
	}
	tr.tail = ts.thrID
}

// unregister removes ts from the registered-threads list. Called whenever a
// thread's wait list becomes empty.
func (tr *threadRegistry) unregister(ts *threadState) {
	if !ts.registered {
		return
	}
	ts.registered = false
	if ts.prev != noThread {
		tr.byID[ts.prev].next = ts.next
	} else {
		tr.head = ts.next
	}
	if ts.next != noThread {
		tr.byID[ts.next].prev = ts.prev
	} else {
		tr.tail = ts.prev
	}
	ts.prev, ts.next = noThread, noThread
}

// registeredThreadIDs returns the registered-threads list in insertion
// order, snapshotted so callers may mutate registration state while
// iterating (spec.md §4.7's "capture next before any possible removal").
func (tr *threadRegistry) registeredThreadIDs() []uint32 {
	var ids []uint32
	for id := tr.head; id != noThread; id = tr.byID[id].next {
		ids = append(ids, id)
	}
	return ids
}
