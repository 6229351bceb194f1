package wasapi

import (
	"fmt"
	"runtime"
)

// Proxy is the long-lived worker: one dedicated goroutine, locked to its
// OS thread, hosting the COM apartment and a request queue that
// serializes every endpoint-lifecycle call. It is a service object
// threaded through Factory and every backend, rather than a package of
// globals.
type Proxy struct {
	queue chan *request
	ready chan error
	done  chan struct{}

	playback deviceRegistry
	capture  deviceRegistry

	// liveDevices counts devices successfully opened but not yet closed,
	// plus one whenever an Enumerate is in flight. It is only ever
	// touched on the worker goroutine, so it needs no synchronization of
	// its own.
	liveDevices int
}

// NewProxy constructs and starts the worker, blocking until it has either
// reported readiness or surfaced a startup failure.
func NewProxy() (*Proxy, error) {
	p := &Proxy{
		queue: make(chan *request),
		ready: make(chan error, 1),
		done:  make(chan struct{}),
	}
	go p.run()
	if err := <-p.ready; err != nil {
		return nil, err
	}
	return p, nil
}

// Close posts a terminate signal and waits for the worker to exit, then
// clears both device registries.
func (p *Proxy) Close() {
	req := newRequest(opTerminate, nil)
	p.queue <- req
	<-req.reply
	<-p.done
	p.playback.clear()
	p.capture.clear()
}

// post submits req and blocks until the worker replies. A request is
// signaled exactly once, then discarded.
func (p *Proxy) post(req *request) error {
	p.queue <- req
	return <-req.reply
}

// Enumerate posts an Enumerate(flow) request, which refreshes the
// registry for that flow, and returns the worker's reply.
func (p *Proxy) Enumerate(flow Flow) error {
	req := newRequest(opEnumerate, nil)
	req.flow = flow
	return p.post(req)
}

func (p *Proxy) registryFor(flow Flow) *deviceRegistry {
	if flow == FlowCapture {
		return &p.capture
	}
	return &p.playback
}

// run is the worker's message loop. It owns the OS thread it runs on for
// its entire lifetime and is the only goroutine that runs
// endpoint-lifecycle calls (open, reset, start, stop, close, enumerate);
// the mixer/recorder loops enter COM on their own threads.
func (p *Proxy) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(p.done)

	p.ready <- nil

	for req := range p.queue {
		switch req.op {
		case opTerminate:
			req.reply <- nil
			return
		case opOpen:
			req.reply <- p.handleOpen(req.target)
		case opReset:
			req.reply <- req.target.resetProxy()
		case opStart:
			req.reply <- req.target.startProxy()
		case opStop:
			req.target.stopProxy()
			req.reply <- nil // Stop always reports success.
		case opClose:
			req.reply <- p.handleClose(req.target)
		case opEnumerate:
			req.reply <- p.handleEnumerate(req.flow)
		default:
			req.reply <- fmt.Errorf("wasapi: unknown proxy op %d", req.op)
		}
	}
}

func (p *Proxy) handleOpen(target proxyTarget) error {
	// enterApartment's increment represents this device for the rest of
	// its lifetime; it is only undone by the matching handleClose.
	if err := p.enterApartment(); err != nil {
		return err
	}
	if err := target.openProxy(); err != nil {
		p.leaveApartment()
		return err
	}
	return nil
}

func (p *Proxy) handleClose(target proxyTarget) error {
	target.closeProxy()
	p.leaveApartment()
	return nil
}

func (p *Proxy) handleEnumerate(flow Flow) error {
	if err := p.enterApartment(); err != nil {
		return err
	}
	defer p.leaveApartment()

	entries, err := enumerateDevices(flow)
	if err != nil {
		return err
	}
	p.registryFor(flow).replace(entries)
	return nil
}

// enterApartment bumps liveDevices and, if this is the first reference,
// enters the shared multi-threaded COM apartment.
func (p *Proxy) enterApartment() error {
	if p.liveDevices == 0 {
		if err := comEnter(); err != nil {
			return err
		}
	}
	p.liveDevices++
	return nil
}

// leaveApartment is enterApartment's inverse: it undoes the tentative
// increment and, once the counter reaches zero, leaves the apartment.
func (p *Proxy) leaveApartment() {
	p.liveDevices--
	if p.liveDevices <= 0 {
		p.liveDevices = 0
		comLeave()
	}
}
