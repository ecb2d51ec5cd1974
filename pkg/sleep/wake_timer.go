package sleep

import (
	"sync"
	"time"
)

// WakeTimer is the single-shot countdown that ends a short sleep window.
// Arm always cancels any pending deadline first, so a stale expiry can never
// fire after a rearm. It is safe for concurrent use.
type WakeTimer struct {
	mu sync.Mutex

	// armed is true while a deadline is pending.
	armed bool

	// gen increments on every Arm/Stop; an expiry carrying an older
	// generation is stale and ignored.
	gen uint64

	// duration is the most recently armed duration.
	duration time.Duration

	// startedAt is when the timer was last armed.
	startedAt time.Time

	timer *time.Timer

	// onExpire is invoked once per arm/expire cycle, after the timer has
	// been marked disarmed. It receives the arm generation the expiry
	// belongs to.
	onExpire func(gen uint64)
}

// NewWakeTimer creates a wake timer. onExpire is invoked on expiry; it may be
// nil.
func NewWakeTimer(onExpire func(gen uint64)) *WakeTimer {
	return &WakeTimer{onExpire: onExpire}
}

// Arm starts the countdown for d, replacing any pending deadline. It returns
// the arm generation, which is delivered back through the expiry callback so
// callers can recognize a delivery from a superseded arm cycle.
func (t *WakeTimer) Arm(d time.Duration) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}

	t.gen++
	gen := t.gen
	t.armed = true
	t.duration = d
	t.startedAt = time.Now()
	t.timer = time.AfterFunc(d, func() {
		t.fire(gen)
	})
	return gen
}

// Stop cancels any pending deadline without invoking the expiry callback.
func (t *WakeTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.armed = false
}

// Armed returns true while a deadline is pending.
func (t *WakeTimer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

// Duration returns the most recently armed duration.
func (t *WakeTimer) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// Remaining returns the time until expiry, or 0 if the timer is not armed.
func (t *WakeTimer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.armed {
		return 0
	}
	remaining := t.duration - time.Since(t.startedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// fire handles timer expiry. A fire from a superseded generation is a stale
// deadline and is dropped.
func (t *WakeTimer) fire(gen uint64) {
	t.mu.Lock()

	if !t.armed || gen != t.gen {
		t.mu.Unlock()
		return
	}

	t.armed = false
	t.timer = nil
	callback := t.onExpire

	t.mu.Unlock()

	// Call callback outside lock
	if callback != nil {
		callback(gen)
	}
}
