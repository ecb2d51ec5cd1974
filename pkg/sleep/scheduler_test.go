package sleep

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/log"
)

// fakePlatform records deep-sleep requests and optionally rejects them.
type fakePlatform struct {
	mu    sync.Mutex
	calls []time.Duration
	err   error
}

func (p *fakePlatform) EnterDeepSleep(bound time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, bound)
	return p.err
}

func (p *fakePlatform) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *fakePlatform) lastBound() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return 0
	}
	return p.calls[len(p.calls)-1]
}

// captureLogger records events for assertions.
type captureLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (c *captureLogger) Log(event log.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureLogger) byCategory(cat log.Category) []log.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []log.Event
	for _, e := range c.events {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

func TestPolicyDecide(t *testing.T) {
	policy := Policy{ShortSleepCeiling: 2 * time.Minute}

	tests := []struct {
		name     string
		maxSleep time.Duration
		want     DecisionKind
	}{
		{"WellBelowCeiling", 50 * time.Second, DecisionShortSleep},
		{"JustBelowCeiling", 2*time.Minute - time.Millisecond, DecisionShortSleep},
		{"AtCeiling", 2 * time.Minute, DecisionDeepSleep},
		{"AboveCeiling", 3 * time.Minute, DecisionDeepSleep},
		{"Unbounded", SleepUnbounded, DecisionDeepSleep},
		{"Zero", 0, DecisionShortSleep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Decide(tt.maxSleep)
			if got.Kind != tt.want {
				t.Errorf("Decide(%v).Kind = %v, want %v", tt.maxSleep, got.Kind, tt.want)
			}
			if got.Duration != tt.maxSleep {
				t.Errorf("Decide(%v).Duration = %v", tt.maxSleep, got.Duration)
			}
		})
	}
}

func TestPolicyDecideDeepSleepOnly(t *testing.T) {
	policy := Policy{DeepSleepOnly: true}

	if got := policy.Decide(time.Second); got.Kind != DecisionDeepSleep {
		t.Errorf("Decide(1s).Kind = %v, want DecisionDeepSleep", got.Kind)
	}
}

func TestPolicyDefaultCeiling(t *testing.T) {
	var policy Policy

	if got := policy.Decide(DefaultShortSleepCeiling - time.Second); got.Kind != DecisionShortSleep {
		t.Errorf("below default ceiling: Kind = %v, want DecisionShortSleep", got.Kind)
	}
	if got := policy.Decide(DefaultShortSleepCeiling); got.Kind != DecisionDeepSleep {
		t.Errorf("at default ceiling: Kind = %v, want DecisionDeepSleep", got.Kind)
	}
}

func TestSchedulerInitialState(t *testing.T) {
	s := NewScheduler(Config{})

	if s.State() != StateNotIdle {
		t.Errorf("State() = %v, want StateNotIdle", s.State())
	}
	if s.Poll(QueryTimeToSleep) != AnswerNotAllowed {
		t.Errorf("Poll(TIME_TO_SLEEP) = %v, want AnswerNotAllowed", s.Poll(QueryTimeToSleep))
	}
	if s.Poll(QuerySleepPermission) != AnswerNotSpecified {
		t.Errorf("Poll(SLEEP_PERMISSION) = %v, want AnswerNotSpecified", s.Poll(QuerySleepPermission))
	}
}

func TestScheduleShortSleep(t *testing.T) {
	platform := &fakePlatform{}
	s := NewScheduler(Config{
		Policy:   Policy{ShortSleepCeiling: 2 * time.Minute},
		Platform: platform,
	})

	s.Schedule(50 * time.Second)

	if s.State() != StateIdle {
		t.Errorf("State() = %v, want StateIdle", s.State())
	}
	if !s.Timer().Armed() {
		t.Error("wake timer not armed on short-sleep path")
	}
	if s.Timer().Duration() != 50*time.Second {
		t.Errorf("timer Duration() = %v, want 50s", s.Timer().Duration())
	}
	if platform.callCount() != 0 {
		t.Errorf("platform called %d times on short-sleep path, want 0", platform.callCount())
	}
}

func TestScheduleDeepSleep(t *testing.T) {
	platform := &fakePlatform{}
	s := NewScheduler(Config{
		Policy:   Policy{ShortSleepCeiling: 2 * time.Minute},
		Platform: platform,
	})

	s.Schedule(3 * time.Minute)

	if s.State() != StateIdle {
		t.Errorf("State() = %v, want StateIdle", s.State())
	}
	if s.Timer().Armed() {
		t.Error("wake timer armed on deep-sleep path, want disarmed")
	}
	if platform.callCount() != 1 {
		t.Fatalf("platform called %d times, want 1", platform.callCount())
	}
	if platform.lastBound() != 3*time.Minute {
		t.Errorf("deep-sleep bound = %v, want 3m", platform.lastBound())
	}
}

func TestScheduleUnbounded(t *testing.T) {
	platform := &fakePlatform{}
	s := NewScheduler(Config{Platform: platform})

	s.Schedule(SleepUnbounded)

	if s.State() != StateIdle {
		t.Errorf("State() = %v, want StateIdle", s.State())
	}
	if s.Timer().Armed() {
		t.Error("wake timer armed for unbounded sleep")
	}
	if platform.lastBound() != SleepUnbounded {
		t.Errorf("deep-sleep bound = %v, want SleepUnbounded", platform.lastBound())
	}
}

func TestScheduleDeepSleepRejected(t *testing.T) {
	platform := &fakePlatform{err: errors.New("hardware busy")}
	logger := &captureLogger{}
	s := NewScheduler(Config{
		Platform: platform,
		Logger:   logger,
	})

	s.Schedule(10 * time.Minute)

	// Rejection is non-fatal: the node stays IDLE so the next poll cycle
	// proceeds, it just fails to save power this cycle.
	if s.State() != StateIdle {
		t.Errorf("State() = %v after rejection, want StateIdle", s.State())
	}

	errEvents := logger.byCategory(log.CategoryError)
	if len(errEvents) != 1 {
		t.Fatalf("logged %d error events, want 1", len(errEvents))
	}
	if errEvents[0].Error.Context != "deep_sleep_request" {
		t.Errorf("error context = %q", errEvents[0].Error.Context)
	}
}

func TestScheduleNoPlatform(t *testing.T) {
	logger := &captureLogger{}
	s := NewScheduler(Config{Logger: logger})

	s.Schedule(10 * time.Minute)

	if s.State() != StateIdle {
		t.Errorf("State() = %v, want StateIdle", s.State())
	}
	if len(logger.byCategory(log.CategoryError)) != 1 {
		t.Error("missing platform rejection log event")
	}
}

func TestExpiryClearsIdle(t *testing.T) {
	s := NewScheduler(Config{})

	s.Schedule(30 * time.Millisecond)

	if s.Poll(QuerySleepPermission) != AnswerAllowedWithRetention {
		t.Errorf("Poll(SLEEP_PERMISSION) = %v while idle", s.Poll(QuerySleepPermission))
	}

	time.Sleep(80 * time.Millisecond)

	if s.State() != StateNotIdle {
		t.Errorf("State() = %v after expiry, want StateNotIdle", s.State())
	}
	if s.Poll(QuerySleepPermission) != AnswerNotSpecified {
		t.Errorf("Poll(SLEEP_PERMISSION) = %v after expiry", s.Poll(QuerySleepPermission))
	}
	if s.Poll(QueryTimeToSleep) != AnswerNotAllowed {
		t.Errorf("Poll(TIME_TO_SLEEP) = %v after expiry", s.Poll(QueryTimeToSleep))
	}
}

func TestExpiryIdempotent(t *testing.T) {
	s := NewScheduler(Config{})

	var wakes int
	var mu sync.Mutex
	s.OnWake(func(WakeReason) {
		mu.Lock()
		wakes++
		mu.Unlock()
	})

	s.Schedule(30 * time.Second)
	s.mu.Lock()
	gen := s.armGen
	s.mu.Unlock()

	// Two expiries without an intervening Schedule: second is a no-op.
	s.handleExpiry(gen)
	s.handleExpiry(gen)

	if s.State() != StateNotIdle {
		t.Errorf("State() = %v, want StateNotIdle", s.State())
	}

	mu.Lock()
	defer mu.Unlock()
	if wakes != 1 {
		t.Errorf("wake callback ran %d times, want 1", wakes)
	}
}

func TestWakeInterrupt(t *testing.T) {
	s := NewScheduler(Config{})

	var reasons []WakeReason
	var mu sync.Mutex
	s.OnWake(func(r WakeReason) {
		mu.Lock()
		reasons = append(reasons, r)
		mu.Unlock()
	})

	// Interrupt while NOT_IDLE is a no-op.
	s.WakeInterrupt()

	s.Schedule(time.Hour)
	s.WakeInterrupt()

	if s.State() != StateNotIdle {
		t.Errorf("State() = %v after interrupt, want StateNotIdle", s.State())
	}
	if s.Timer().Armed() {
		t.Error("wake timer still armed after interrupt")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reasons) != 1 || reasons[0] != WakeReasonInterrupt {
		t.Errorf("wake reasons = %v, want [INTERRUPT]", reasons)
	}
}

func TestRearmReplacesDeadline(t *testing.T) {
	s := NewScheduler(Config{})

	var wakes int
	var mu sync.Mutex
	s.OnWake(func(WakeReason) {
		mu.Lock()
		wakes++
		mu.Unlock()
	})

	s.Schedule(200 * time.Millisecond)
	s.Schedule(50 * time.Millisecond)

	if s.Timer().Duration() != 50*time.Millisecond {
		t.Errorf("timer Duration() = %v, want 50ms", s.Timer().Duration())
	}

	time.Sleep(120 * time.Millisecond)

	// Fired at the 50ms rearm, not the stale 200ms deadline.
	if s.State() != StateNotIdle {
		t.Error("node still idle 120ms after 50ms rearm")
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if wakes != 1 {
		t.Errorf("wake callback ran %d times, want 1", wakes)
	}
}

func TestStaleExpiryAfterRearmIgnored(t *testing.T) {
	// An expiry can pass the timer's own staleness check and then lose the
	// race against a rearm before its callback is delivered. The delivery
	// carries the superseded arm generation and must not end the window
	// the rearm just opened.
	s := NewScheduler(Config{})

	s.Schedule(40 * time.Second)
	s.mu.Lock()
	staleGen := s.armGen
	s.mu.Unlock()

	s.Schedule(30 * time.Second)

	// Deliver the in-flight expiry from the first window.
	s.handleExpiry(staleGen)

	if s.State() != StateIdle {
		t.Errorf("State() = %v after stale expiry, want StateIdle", s.State())
	}
	if !s.Timer().Armed() {
		t.Error("stale expiry disarmed the fresh wake timer")
	}
	if s.Timer().Duration() != 30*time.Second {
		t.Errorf("timer Duration() = %v, want 30s", s.Timer().Duration())
	}

	// The current window's expiry still wakes.
	s.mu.Lock()
	currentGen := s.armGen
	s.mu.Unlock()
	s.handleExpiry(currentGen)

	if s.State() != StateNotIdle {
		t.Errorf("State() = %v after current expiry, want StateNotIdle", s.State())
	}
}

func TestPollPermitShutdown(t *testing.T) {
	s := NewScheduler(Config{
		Policy: Policy{PermitShutdown: true},
	})

	s.Schedule(time.Second)

	if got := s.Poll(QuerySleepPermission); got != AnswerAllowedWithShutdown {
		t.Errorf("Poll(SLEEP_PERMISSION) = %v, want AnswerAllowedWithShutdown", got)
	}
}

func TestScheduleShortSleepCycle(t *testing.T) {
	// Full cycle: schedule, permission granted, expiry, permission revoked,
	// schedule again.
	s := NewScheduler(Config{})

	s.Schedule(30 * time.Millisecond)
	if !s.Poll(QuerySleepPermission).Allowed() {
		t.Fatal("permission denied while idle")
	}

	time.Sleep(80 * time.Millisecond)
	if s.Poll(QuerySleepPermission).Allowed() {
		t.Fatal("permission granted after wake")
	}

	s.Schedule(30 * time.Millisecond)
	if s.State() != StateIdle {
		t.Error("rescheduling after wake did not return to IDLE")
	}
	if !s.Timer().Armed() {
		t.Error("wake timer not rearmed on second cycle")
	}
}

func TestOnStateChangeCallback(t *testing.T) {
	s := NewScheduler(Config{})

	var transitions []string
	var mu sync.Mutex
	s.OnStateChange(func(oldState, newState State) {
		mu.Lock()
		transitions = append(transitions, oldState.String()+"->"+newState.String())
		mu.Unlock()
	})

	s.Schedule(time.Hour)
	s.WakeInterrupt()

	mu.Lock()
	defer mu.Unlock()
	want := []string{"NOT_IDLE->IDLE", "IDLE->NOT_IDLE"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition[%d] = %q, want %q", i, transitions[i], want[i])
		}
	}
}

func TestSchedulerLogsDecisions(t *testing.T) {
	logger := &captureLogger{}
	s := NewScheduler(Config{
		Logger:    logger,
		SessionID: "boot-1",
		Platform:  &fakePlatform{},
	})

	s.Schedule(50 * time.Second)
	s.Schedule(10 * time.Minute)

	sleeps := logger.byCategory(log.CategorySleep)
	if len(sleeps) != 2 {
		t.Fatalf("logged %d sleep events, want 2", len(sleeps))
	}
	if sleeps[0].Sleep.Decision != "SHORT_SLEEP" || !sleeps[0].Sleep.TimerArmed {
		t.Errorf("first decision = %+v", sleeps[0].Sleep)
	}
	if sleeps[1].Sleep.Decision != "DEEP_SLEEP" || sleeps[1].Sleep.TimerArmed {
		t.Errorf("second decision = %+v", sleeps[1].Sleep)
	}
	if sleeps[0].SessionID != "boot-1" {
		t.Errorf("SessionID = %q, want boot-1", sleeps[0].SessionID)
	}
}
