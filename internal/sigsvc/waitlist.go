package sigsvc

// pushFront inserts id at the head of ts's per-thread wait list (spec.md
// §4.3: "unordered (insertion-order-irrelevant)"; push-front keeps
// insertion O(1) and gives the "insertion-newest-first" iteration order
// spec.md §5 calls out for event delivery). Registers ts in the
// registered-threads list if this is its first pending record.
func pushFrontThread(tr *threadRegistry, a *arena, ts *threadState, id recordID) {
	r := a.get(id)
	r.tprev = 0
	r.tnext = ts.first
	if ts.first != 0 {
		a.get(ts.first).tprev = id
	}
	ts.first = id
	tr.register(ts)
}

// unlinkThread removes id from ts's per-thread wait list. Unregisters ts
// from the registered-threads list if the list becomes empty (invariant
// I3).
func unlinkThread(tr *threadRegistry, a *arena, ts *threadState, id recordID) {
	r := a.get(id)
	if r.tprev != 0 {
		a.get(r.tprev).tnext = r.tnext
	} else {
		ts.first = r.tnext
	}
	if r.tnext != 0 {
		a.get(r.tnext).tprev = r.tprev
	}
	r.tprev, r.tnext = 0, 0

	if ts.blockingSignal == id {
		ts.blockingSignal = 0
	}
	if ts.first == 0 {
		tr.unregister(ts)
	}
}
