// Package countdown derives the live remaining-time label shown on listing
// cards from an auction end time.
package countdown

import (
	"fmt"
	"sync"
	"time"
)

// Ended is the terminal label once the end time has passed
const Ended = "Ended"

// Remaining returns the time left until end, clamped at zero
func Remaining(end, now time.Time) time.Duration {
	left := end.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Format renders a remaining duration as "{h}h {mm}m {ss}s". Hours are
// unpadded and may exceed 24; minutes and seconds are zero-padded. A
// non-positive duration renders as Ended.
func Format(left time.Duration) string {
	total := int64(left / time.Second)
	if total <= 0 {
		return Ended
	}
	h := total / 3600
	m := (total / 60) % 60
	s := total % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// Label is the one-shot form used when rendering a card: end time in epoch
// milliseconds to the current label
func Label(endMillis int64, now time.Time) string {
	return Format(Remaining(time.UnixMilli(endMillis), now))
}

// Timer emits the countdown label once immediately and then once per second
// until the end time passes, at which point it emits Ended and stops itself.
// Stop releases the underlying ticker; it is safe to call more than once and
// after the timer has finished on its own.
type Timer struct {
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewTimer starts a timer for the given end time. emit is called from a
// single goroutine with the current label and whether the countdown ended.
func NewTimer(end time.Time, emit func(label string, ended bool)) *Timer {
	t := &Timer{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.run(end, emit)
	return t
}

func (t *Timer) run(end time.Time, emit func(string, bool)) {
	defer close(t.done)

	// first label before the first tick, no blank second on mount
	if !t.emitNow(end, emit) {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if !t.emitNow(end, emit) {
				return
			}
		}
	}
}

// emitNow reports whether the timer should keep ticking
func (t *Timer) emitNow(end time.Time, emit func(string, bool)) bool {
	left := Remaining(end, time.Now())
	if left <= 0 {
		emit(Ended, true)
		return false
	}
	emit(Format(left), false)
	return true
}

// Stop cancels the timer and waits for the emit loop to exit
func (t *Timer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}
