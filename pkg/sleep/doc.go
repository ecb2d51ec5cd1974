// Package sleep implements sleep scheduling for a mesh Low Power Node (LPN).
//
// A Low Power Node cannot keep its radio receiver active. It relies on an
// always-on Friend node to cache messages while it sleeps, and must wake
// reliably to poll the Friend. The external mesh engine computes the maximum
// allowable sleep duration between polls and hands it to the Scheduler; the
// platform power manager later polls the Scheduler before committing to a
// low-power mode.
//
// # Sleep Strategy
//
// The Scheduler picks one of two strategies per scheduling call:
//
//   - Short sleep: below the policy ceiling (default 2 minutes), the wake
//     timer is armed for exactly the requested duration and the device uses a
//     light sleep mode that preserves timer and RAM state. Timer expiry wakes
//     the node for the next poll cycle.
//   - Deep sleep: at or above the ceiling, the wake timer is bypassed and the
//     platform is asked for its deepest sleep mode with an external
//     (interrupt-driven) wake source, bounded by the requested duration.
//
// # State Machine
//
// The idle flag has two states:
//
//	NOT_IDLE -> IDLE      Schedule()
//	IDLE -> NOT_IDLE      wake timer expiry or WakeInterrupt()
//
// A wake event always clears IDLE before any subsequent Poll query is
// answered, so the power manager never observes a stale IDLE state. Wake
// transitions are idempotent: a timer or interrupt firing after IDLE has
// already been cleared is a safe no-op.
//
// # Failure Behavior
//
// A platform rejection of the deep-sleep request is logged and not retried;
// the node simply fails to save power for that cycle and the next poll
// proceeds normally.
package sleep
