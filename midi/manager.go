package midi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"mystrix-remote/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager polls the MIDI ports and opens any controller whose port name
// contains the configured match string.
type DeviceManager struct {
	match   string
	channel uint8

	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
}

// NewDeviceManager creates a device manager matching ports by name substring.
func NewDeviceManager(match string, channel uint8) *DeviceManager {
	return &DeviceManager{
		match:       strings.ToLower(match),
		channel:     channel,
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// Run polls until ctx is done, then closes every open controller.
func (dm *DeviceManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return nil
		case <-ticker.C:
			dm.scan()
		}
	}
}

type ports struct {
	ins  []drivers.In
	outs []drivers.Out
}

// listPorts enumerates ports with a timeout; some backends hang on enumeration.
func listPorts(timeout time.Duration) (ports, bool) {
	ch := make(chan ports, 1)
	go func() {
		ch <- ports{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, true
	case <-time.After(timeout):
		return ports{}, false
	}
}

func (dm *DeviceManager) scan() {
	p, ok := listPorts(3 * time.Second)
	if !ok {
		debug.Log("devices", "port enumeration timed out")
		return
	}

	seen := make(map[string]bool)

	for _, in := range p.ins {
		name := in.String()
		if !Matches(name, dm.match) {
			continue
		}
		seen[name] = true

		dm.mu.RLock()
		_, exists := dm.controllers[name]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		out := matchingOut(p.outs, name)
		c, err := NewMystrix(name, in, out, dm.channel)
		if err != nil {
			debug.Log("devices", "open %q: %v", name, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[name] = c
		dm.mu.Unlock()

		debug.Log("devices", "connected %q (output=%v)", name, out != nil)
		dm.events <- DeviceEvent{Type: DeviceConnected, Controller: c, ID: name}
	}

	dm.mu.Lock()
	var gone []string
	for id := range dm.controllers {
		if !seen[id] {
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		dm.controllers[id].Close()
		delete(dm.controllers, id)
		debug.Log("devices", "disconnected %q", id)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

// FindPorts returns the first input port matching match and its paired
// output, which may be nil.
func FindPorts(match string, timeout time.Duration) (drivers.In, drivers.Out, error) {
	p, ok := listPorts(timeout)
	if !ok {
		return nil, nil, errors.New("port enumeration timed out")
	}
	for _, in := range p.ins {
		if Matches(in.String(), match) {
			return in, matchingOut(p.outs, in.String()), nil
		}
	}
	return nil, nil, fmt.Errorf("no input port matching %q", match)
}

// matchingOut finds the output port paired with an input port name. Backends
// name the pair identically or differ only in an "in"/"out" suffix.
func matchingOut(outs []drivers.Out, inName string) drivers.Out {
	want := portStem(inName)
	for _, out := range outs {
		if portStem(out.String()) == want {
			return out
		}
	}
	return nil
}

func portStem(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range []string{" in", " out", " input", " output"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return s
}

// Matches reports whether a port name contains match, ignoring case.
func Matches(name, match string) bool {
	if match == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(match))
}
