package sigsvc

// timeoutQueue is the global ordered collection of all timed (non-infinite)
// signal records across every thread (spec.md §4.4), implemented as an
// intrusive sorted doubly-linked list over arena indices. Only records with
// infinite == false ever appear here (invariant I1).
//
// A heap (as the teacher's eventloop/loop.go timerHeap uses for its own
// timer scheduling) would give O(log n) insert but only O(log n) removal
// *by value*, not the O(1) removal-by-handle spec.md requires for DISCARD
// and event-driven delivery to unlink an arbitrary mid-queue record; an
// intrusive list with stored neighbor pointers is the structure that
// actually satisfies that contract, so that's what's implemented here.
type timeoutQueue struct {
	head, tail recordID
}

// less reports whether a sorts strictly before b under the comparator of
// spec.md §4.4: records in the current epoch (dir == direction) sort before
// records whose epoch is the next wrap (dir != direction); within the same
// epoch, ascending by timeout using signed 32-bit subtraction.
func less(a, b *record, direction uint8) bool {
	if a.dir == b.dir {
		return int32(a.timeout-b.timeout) < 0
	}
	return a.dir == direction
}

// computeAbsoluteTimeout converts a relative tick count into an absolute
// tick and the epoch (dir) it belongs to, per spec.md §4.4's "Timeout
// computation on insertion". Go's unsigned-integer arithmetic already wraps
// exactly like the 32-bit addition the source performs, so the "arithmetic
// wrap happened" check is just abs < ticks.
func computeAbsoluteTimeout(rel, ticks uint32, direction uint8) (abs uint32, dir uint8) {
	abs = rel + ticks
	if abs < ticks {
		return rel - (0xFFFFFFFF - ticks), direction ^ 1
	}
	return abs, direction
}

// insert walks from the head until the first strictly-greater element and
// links id immediately before it, per spec.md §4.4. id's record must already
// have infinite == false and gprev/gnext left zero.
func (q *timeoutQueue) insert(a *arena, direction uint8, id recordID) {
	r := a.get(id)
	var prev recordID
	cur := q.head
	for cur != 0 {
		curRec := a.get(cur)
		if less(r, curRec, direction) {
			break
		}
		prev = cur
		cur = curRec.gnext
	}

	r.gprev = prev
	r.gnext = cur

	if prev != 0 {
		a.get(prev).gnext = id
	} else {
		// Inserting at head: the old head (if any) becomes id's successor,
		// and its gprev must point back at the new head — the fix for the
		// source's stale-ofirst bug noted in spec.md §9.
		q.head = id
	}
	if cur != 0 {
		a.get(cur).gprev = id
	} else {
		q.tail = id
	}
}

// remove unlinks id from the queue in O(1) via its stored neighbor
// pointers. id's record is left with zeroed gprev/gnext.
func (q *timeoutQueue) remove(a *arena, id recordID) {
	r := a.get(id)
	if r.gprev != 0 {
		a.get(r.gprev).gnext = r.gnext
	} else {
		q.head = r.gnext
	}
	if r.gnext != 0 {
		a.get(r.gnext).gprev = r.gprev
	} else {
		q.tail = r.gprev
	}
	r.gprev, r.gnext = 0, 0
}
