package session

import (
	"sync"
	"time"
)

// Reminder runs fn on a fixed interval until stopped. Sessions own
// their reminders and stop them on teardown so no timer outlives the
// component that created it.
type Reminder struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func NewReminder(interval time.Duration, fn func()) *Reminder {
	r := &Reminder{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-r.ticker.C:
				fn()
			case <-r.done:
				return
			}
		}
	}()

	return r
}

// Stop cancels the reminder. Safe to call more than once.
func (r *Reminder) Stop() {
	r.once.Do(func() {
		r.ticker.Stop()
		close(r.done)
	})
}
