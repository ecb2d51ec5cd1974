package sleep

import "testing"

func TestStateString(t *testing.T) {
	if StateNotIdle.String() != "NOT_IDLE" {
		t.Errorf("StateNotIdle.String() = %q", StateNotIdle.String())
	}
	if StateIdle.String() != "IDLE" {
		t.Errorf("StateIdle.String() = %q", StateIdle.String())
	}
	if State(9).String() != "UNKNOWN" {
		t.Errorf("State(9).String() = %q", State(9).String())
	}
}

func TestWakeReasonString(t *testing.T) {
	if WakeReasonTimer.String() != "TIMER" {
		t.Errorf("WakeReasonTimer.String() = %q", WakeReasonTimer.String())
	}
	if WakeReasonInterrupt.String() != "INTERRUPT" {
		t.Errorf("WakeReasonInterrupt.String() = %q", WakeReasonInterrupt.String())
	}
}
