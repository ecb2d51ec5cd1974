package sleep

import (
	"math"
	"time"
)

// SleepUnbounded is the sentinel duration meaning "sleep indefinitely until
// externally woken". The mesh engine passes it when no poll deadline bounds
// the sleep.
const SleepUnbounded time.Duration = math.MaxInt64

// State represents the LPN idle state.
type State uint8

const (
	// StateNotIdle indicates the node must stay awake (initial state).
	StateNotIdle State = iota

	// StateIdle indicates the node has committed to a sleep window.
	StateIdle
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateNotIdle:
		return "NOT_IDLE"
	case StateIdle:
		return "IDLE"
	default:
		return "UNKNOWN"
	}
}

// WakeReason identifies what cleared the IDLE state.
type WakeReason uint8

const (
	// WakeReasonTimer indicates the wake timer expired.
	WakeReasonTimer WakeReason = iota

	// WakeReasonInterrupt indicates an external hardware wake source fired.
	WakeReasonInterrupt
)

// String returns the wake reason name.
func (r WakeReason) String() string {
	switch r {
	case WakeReasonTimer:
		return "TIMER"
	case WakeReasonInterrupt:
		return "INTERRUPT"
	default:
		return "UNKNOWN"
	}
}
