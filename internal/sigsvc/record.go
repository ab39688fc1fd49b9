package sigsvc

import "github.com/ahamid/pmansignal/internal/sigsvc/proto"

// recordID is a stable arena index for a signal record. 0 is the nil
// sentinel — valid ids start at 1 — so intrusive list links can be stored
// as plain recordID fields inside each record rather than pointers
// (spec.md §9: "arena + stable indices... rather than raw ownership
// links").
type recordID uint32

// record is one outstanding wait — the unit spec.md §3 calls the "signal
// record". A record's thread/task/gprev/gnext/tprev/tnext fields are arena
// handles, not pointers, so the record and its owning thread never alias
// each other's storage directly.
type record struct {
	inUse bool

	thread      uint32 // owning thread id (non-owning back-reference)
	eventType   proto.EventType
	id          uint32
	task        uint32
	signalParam uint32
	signalPort  uint32

	timeout   uint32 // absolute tick, or proto.Repeating; meaningless if infinite
	dir       uint8  // parity snapshot at insertion
	infinite  bool   // true iff INFINITE or REPEATING; excludes from global queue
	repeating bool   // true iff timeout sentinel was REPEATING

	tprev, tnext recordID // per-thread list links
	gprev, gnext recordID // global timeout-queue links; unused if infinite
}

// matches implements the structural equality spec.md §4.2 defines for
// DISCARD: exact equality over (task, event_type, signal_param, id,
// signal_port). No wildcarding here — that's only for event matching
// (matchesEvent, in deliver.go).
func (r *record) matches(task uint32, eventType proto.EventType, signalParam, id, signalPort uint32) bool {
	return r.task == task &&
		r.eventType == eventType &&
		r.signalParam == signalParam &&
		r.id == id &&
		r.signalPort == signalPort
}

// arena owns all record storage, indexed by recordID. Freed slots are
// tracked on a free list so repeated WAIT/DISCARD cycles don't grow the
// backing slice unboundedly.
type arena struct {
	records  []record // index 0 is unused (recordID 0 means nil)
	freeList []recordID
}

func newArena() *arena {
	return &arena{records: make([]record, 1)} // reserve index 0
}

// alloc returns a fresh, zeroed record and its id. Mirrors kmalloc's
// all-or-nothing contract: callers must treat allocation as able to fail in
// principle (spec.md §7: "allocation failure must be treated like any other
// validation failure"), so this method never panics and real deployments
// may wrap it with a bound on arena growth; here growth is unbounded
// because the host process owns memory accounting, not this subsystem.
func (a *arena) alloc() (recordID, *record) {
	if n := len(a.freeList); n > 0 {
		id := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		r := &a.records[id]
		*r = record{inUse: true}
		return id, r
	}
	a.records = append(a.records, record{inUse: true})
	return recordID(len(a.records) - 1), &a.records[len(a.records)-1]
}

// free returns id's slot to the pool. Mirrors kfree: callers must ensure
// the record has already been unlinked from every list it participates in.
func (a *arena) free(id recordID) {
	r := &a.records[id]
	*r = record{}
	a.freeList = append(a.freeList, id)
}

func (a *arena) get(id recordID) *record {
	if id == 0 {
		return nil
	}
	return &a.records[id]
}
