package main

import (
	"mystrix-remote/palette"
	"mystrix-remote/session"
)

// demoSession is the offline stand-in for the host: a grid of colored clips
// with one playing and one queued.
func demoSession(tracks, scenes int) *session.Memory {
	m := session.NewMemory(tracks+2, scenes+2)
	entries := palette.Entries()
	for t := range m.Tracks {
		for s := range m.Scenes {
			if (t+2*s)%5 == 4 {
				continue
			}
			m.SetClip(t, s, entries[(t*5+s*3)%len(entries)].RGB)
		}
	}
	if s := m.Slot(0, 0); s != nil && s.Clip {
		s.Playing = true
	}
	if s := m.Slot(1, 1); s != nil && s.Clip {
		s.Triggered = true
	}
	return m
}
