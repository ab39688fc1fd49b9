package sigsvc

import "github.com/ahamid/pmansignal/internal/sigsvc/proto"

// Dispatcher drains the two inbound ports (spec.md §4.6, §6) and hands each
// command to the Service in order. It's a thin adapter — Service itself has
// no notion of ports — so the port framing (here: buffered Go channels)
// can be swapped for whatever real transport a host process wires in,
// without touching dispatch semantics.
//
// This generalizes the teacher's channel-based ingress (eventloop/ingress.go
// ChunkedIngress) from "arbitrary task closures" to the five fixed pman
// commands spec.md §6 defines: the wire protocol here is a closed tagged
// union, not an open queue of callbacks.
type Dispatcher struct {
	svc *Service

	SignalsPort chan any // proto.WaitForSignal | proto.DiscardSignal | proto.SetSignalHandler | proto.SetSignalStack
	EventsPort  chan proto.Event
}

// NewDispatcher builds a Dispatcher over svc with the given port buffer
// sizes.
func NewDispatcher(svc *Service, signalsBuf, eventsBuf int) *Dispatcher {
	return &Dispatcher{
		svc:         svc,
		SignalsPort: make(chan any, signalsBuf),
		EventsPort:  make(chan proto.Event, eventsBuf),
	}
}

// Step drains the signal port to empty, then the event port to empty
// (spec.md §5: "processed in a deterministic order per service step
// (e.g. signals first, then events)"), processing each command to
// completion before reading the next. It is not safe to call Step
// concurrently with itself or with Service.TimerTick — the service is
// single-threaded cooperative (spec.md §5).
func (d *Dispatcher) Step() {
	d.drainSignals()
	d.drainEvents()
}

func (d *Dispatcher) drainSignals() {
	for {
		select {
		case cmd := <-d.SignalsPort:
			d.dispatchSignal(cmd)
		default:
			return
		}
	}
}

func (d *Dispatcher) drainEvents() {
	for {
		select {
		case ev := <-d.EventsPort:
			d.svc.Event(ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) dispatchSignal(cmd any) {
	switch c := cmd.(type) {
	case proto.WaitForSignal:
		d.svc.Wait(c)
	case proto.DiscardSignal:
		d.svc.Discard(c)
	case proto.SetSignalHandler:
		d.svc.SetSignalHandler(c)
	case proto.SetSignalStack:
		d.svc.SetSignalStack(c)
	}
}
