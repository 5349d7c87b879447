package surface

// Clock runs callbacks on a tick count instead of wall time. The owner
// calls Advance once per base tick.
type Clock struct {
	now     int64
	repeats []*repeat
	timers  []timer
}

type repeat struct {
	period int
	next   int64
	fn     func()
}

type timer struct {
	due int64
	fn  func()
}

// Now is the number of ticks advanced so far.
func (c *Clock) Now() int64 {
	return c.now
}

// Every runs fn every n ticks, starting n ticks from now.
func (c *Clock) Every(n int, fn func()) {
	n = max(n, 1)
	c.repeats = append(c.repeats, &repeat{period: n, next: c.now + int64(n), fn: fn})
}

// After runs fn once, n ticks from now. Timers cannot be cancelled.
func (c *Clock) After(n int, fn func()) {
	n = max(n, 1)
	c.timers = append(c.timers, timer{due: c.now + int64(n), fn: fn})
}

// Pending is the number of one-shot timers not yet run.
func (c *Clock) Pending() int {
	return len(c.timers)
}

// Advance moves the clock one tick. Due one-shot timers run first, in the
// order they were scheduled, then due repeating callbacks.
func (c *Clock) Advance() {
	c.now++

	var due []timer
	kept := c.timers[:0]
	for _, t := range c.timers {
		if t.due <= c.now {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	c.timers = kept
	for _, t := range due {
		t.fn()
	}

	for _, r := range c.repeats {
		if c.now >= r.next {
			r.next = c.now + int64(r.period)
			r.fn()
		}
	}
}
