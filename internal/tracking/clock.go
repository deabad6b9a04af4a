package tracking

import "time"

// Clock abstracts the tick source so the simulation runs on wall time in
// production and on a virtual clock in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func RealClock() Clock {
	return realClock{}
}

// ImmediateClock fires every wait instantly. Tests use it to drain a full
// delivery script synchronously.
type ImmediateClock struct {
	now   time.Time
	Waits []time.Duration
}

func NewImmediateClock() *ImmediateClock {
	return &ImmediateClock{now: time.Unix(0, 0)}
}

func (c *ImmediateClock) Now() time.Time {
	return c.now
}

func (c *ImmediateClock) After(d time.Duration) <-chan time.Time {
	c.Waits = append(c.Waits, d)
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}
