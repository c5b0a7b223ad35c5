package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestReminderFiresAndStops(t *testing.T) {
	var fired atomic.Int32
	r := NewReminder(5*time.Millisecond, func() {
		fired.Add(1)
	})

	deadline := time.After(time.Second)
	for fired.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("reminder never fired twice")
		case <-time.After(time.Millisecond):
		}
	}

	r.Stop()
	after := fired.Load()
	time.Sleep(25 * time.Millisecond)
	if fired.Load() != after {
		t.Errorf("reminder fired after Stop: %d -> %d", after, fired.Load())
	}
}

func TestReminderStopIdempotent(t *testing.T) {
	r := NewReminder(time.Hour, func() {})
	r.Stop()
	r.Stop()
}
