package main

import (
	"context"
	"log/slog"
	"slices"

	"mystrix-remote/midi"
)

// controllerTarget is the side of the surface manager the router drives.
type controllerTarget interface {
	Attach(c midi.Controller)
	Detach(id string)
}

// deviceRouter decides which open controller drives the surface. Only one
// is attached at a time; the others wait in order and the first waiting one
// takes over when the attached controller goes away.
type deviceRouter struct {
	target      controllerTarget
	autoConnect bool
	logger      *slog.Logger

	current midi.Controller
	waiting []midi.Controller
}

func newDeviceRouter(target controllerTarget, autoConnect bool, logger *slog.Logger) *deviceRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &deviceRouter{target: target, autoConnect: autoConnect, logger: logger}
}

// Forward routes device events until ctx is done or events is closed.
func (r *deviceRouter) Forward(ctx context.Context, events <-chan midi.DeviceEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			r.Handle(ev)
		}
	}
}

// Handle applies one connect or disconnect. With autoConnect a new
// controller takes over and the previous one waits first in line; without
// it the attached controller keeps the surface and the new one queues.
func (r *deviceRouter) Handle(ev midi.DeviceEvent) {
	switch ev.Type {
	case midi.DeviceConnected:
		if ev.Controller == nil {
			return
		}
		switch {
		case r.current == nil:
		case r.autoConnect:
			r.waiting = append([]midi.Controller{r.current}, r.waiting...)
		default:
			r.logger.Info("controller waiting, one is already attached", "id", ev.ID, "current", r.current.ID())
			r.waiting = append(r.waiting, ev.Controller)
			return
		}
		r.current = ev.Controller
		r.target.Attach(ev.Controller)

	case midi.DeviceDisconnected:
		r.waiting = slices.DeleteFunc(r.waiting, func(c midi.Controller) bool { return c.ID() == ev.ID })
		if r.current == nil || r.current.ID() != ev.ID {
			return
		}
		r.current = nil
		r.target.Detach(ev.ID)
		if len(r.waiting) > 0 {
			next := r.waiting[0]
			r.waiting = r.waiting[1:]
			r.current = next
			r.logger.Info("switching to waiting controller", "id", next.ID())
			r.target.Attach(next)
		}
	}
}
