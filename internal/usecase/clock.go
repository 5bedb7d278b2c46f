package usecase

import (
	"sync"
	"time"
)

// Clock hands out UTC timestamps at microsecond precision that strictly
// increase across calls, even if the wall clock stalls or steps back.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewClock returns a Clock reading the system time.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
