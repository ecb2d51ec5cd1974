package sleep

import (
	"errors"
	"sync"
	"time"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/log"
)

// Policy constants.
const (
	// DefaultShortSleepCeiling is the default boundary between the
	// timer-gated light sleep and the interrupt-woken deep sleep. Beyond
	// roughly two minutes, the deep mode saves more power than keeping the
	// timer domain alive.
	DefaultShortSleepCeiling = 2 * time.Minute
)

// Scheduler errors.
var (
	// ErrNoPlatform is reported when a deep sleep is requested but no
	// platform sleep facility was configured.
	ErrNoPlatform = errors.New("no platform sleep facility configured")
)

// Platform is the hardware sleep facility the scheduler drives for the
// deep-sleep path. Implementations request the deepest available sleep mode
// with an external (interrupt-driven) wake source.
type Platform interface {
	// EnterDeepSleep requests deep sleep with bound as an upper limit on
	// the sleep duration. SleepUnbounded means no limit. The call may be
	// synchronous from the caller's perspective, or return an error if the
	// hardware refuses the transition.
	EnterDeepSleep(bound time.Duration) error
}

// Policy holds the sleep strategy parameters. The ceiling between light and
// deep sleep is silicon-specific, so it is configuration rather than a
// constant.
type Policy struct {
	// ShortSleepCeiling is the duration below which the wake timer is
	// armed and a light sleep mode used. Zero selects the default.
	ShortSleepCeiling time.Duration

	// DeepSleepOnly forces the deep-sleep path regardless of duration.
	// Used on parts where shutdown sleep always wins on power.
	DeepSleepOnly bool

	// PermitShutdown selects the permission answer for an idle node:
	// true allows a sleep mode that loses volatile state, false requires
	// retention. Fixed platform policy, never a runtime decision.
	PermitShutdown bool
}

// ceiling returns the effective short-sleep ceiling.
func (p Policy) ceiling() time.Duration {
	if p.ShortSleepCeiling <= 0 {
		return DefaultShortSleepCeiling
	}
	return p.ShortSleepCeiling
}

// DecisionKind identifies the chosen sleep strategy.
type DecisionKind uint8

const (
	// DecisionShortSleep is a timer-gated light sleep.
	DecisionShortSleep DecisionKind = iota

	// DecisionDeepSleep is an interrupt-woken deep sleep.
	DecisionDeepSleep
)

// String returns the decision kind name.
func (k DecisionKind) String() string {
	switch k {
	case DecisionShortSleep:
		return "SHORT_SLEEP"
	case DecisionDeepSleep:
		return "DEEP_SLEEP"
	default:
		return "UNKNOWN"
	}
}

// Decision is the transient result of a scheduling call. It is recomputed on
// every call and never stored.
type Decision struct {
	// Kind is the chosen strategy.
	Kind DecisionKind

	// Duration is the sleep bound. For a short sleep it is the exact wake
	// deadline; for a deep sleep it is an upper bound, possibly
	// SleepUnbounded.
	Duration time.Duration
}

// Decide applies the policy to a requested maximum sleep duration.
func (p Policy) Decide(maxSleep time.Duration) Decision {
	if p.DeepSleepOnly || maxSleep == SleepUnbounded || maxSleep >= p.ceiling() {
		return Decision{Kind: DecisionDeepSleep, Duration: maxSleep}
	}
	return Decision{Kind: DecisionShortSleep, Duration: maxSleep}
}

// Config holds scheduler configuration.
type Config struct {
	// Policy is the sleep strategy. Zero value selects defaults.
	Policy Policy

	// Platform is the deep-sleep facility. May be nil; deep-sleep
	// requests then fail non-fatally.
	Platform Platform

	// Logger receives scheduling and state events. May be nil.
	Logger log.Logger

	// SessionID tags log events with the boot session.
	SessionID string
}

// Scheduler is the sleep decision engine for a Low Power Node. It owns the
// idle state and the wake timer; the external mesh engine calls Schedule when
// the node is eligible to sleep, and the platform power manager calls Poll
// before committing to a low-power mode.
type Scheduler struct {
	mu sync.RWMutex

	// Current idle state
	state State

	// Single-shot wake timer for the short-sleep path
	timer *WakeTimer

	// armGen is the timer generation of the current short-sleep window, or
	// zero when no timer backs the window. A timer expiry whose generation
	// does not match was superseded by a rearm and must not wake the node.
	armGen uint64

	policy    Policy
	platform  Platform
	logger    log.Logger
	sessionID string

	// Callbacks
	onStateChange func(oldState, newState State)
	onWake        func(reason WakeReason)
}

// NewScheduler creates a sleep scheduler in the NOT_IDLE state.
func NewScheduler(cfg Config) *Scheduler {
	s := &Scheduler{
		state:     StateNotIdle,
		policy:    cfg.Policy,
		platform:  cfg.Platform,
		logger:    log.OrNoop(cfg.Logger),
		sessionID: cfg.SessionID,
	}
	s.timer = NewWakeTimer(s.handleExpiry)
	return s
}

// State returns the current idle state.
func (s *Scheduler) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Timer returns the wake timer for inspection.
func (s *Scheduler) Timer() *WakeTimer {
	return s.timer
}

// Policy returns the configured sleep policy.
func (s *Scheduler) Policy() Policy {
	return s.policy
}

// OnStateChange sets a callback for idle-state transitions.
// The callback runs outside the scheduler lock.
func (s *Scheduler) OnStateChange(fn func(oldState, newState State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateChange = fn
}

// OnWake sets a callback invoked when a wake event clears the IDLE state.
// The callback runs outside the scheduler lock.
func (s *Scheduler) OnWake(fn func(reason WakeReason)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onWake = fn
}

// Schedule commits the node to a sleep window bounded by maxSleep. Below the
// policy ceiling the wake timer is armed for exactly maxSleep; otherwise the
// platform is asked for deep sleep with maxSleep as an upper bound. Either
// way the node is IDLE afterwards: a rejected deep-sleep request only costs
// power, not correctness, so the next poll cycle proceeds from IDLE as usual.
func (s *Scheduler) Schedule(maxSleep time.Duration) {
	decision := s.policy.Decide(maxSleep)

	s.mu.Lock()

	// Stop any stale deadline before rearming so an old timer can never
	// cut the new window short.
	s.timer.Stop()

	s.armGen = 0
	if decision.Kind == DecisionShortSleep {
		s.armGen = s.timer.Arm(decision.Duration)
	}

	oldState := s.state
	s.state = StateIdle
	stateChangeFn := s.onStateChange

	s.mu.Unlock()

	s.logDecision(decision)

	if decision.Kind == DecisionDeepSleep {
		if err := s.enterDeepSleep(decision.Duration); err != nil {
			// Non-fatal: the node stays awake one more cycle.
			s.logError(err, "deep_sleep_request")
		}
	}

	if stateChangeFn != nil && oldState != StateIdle {
		stateChangeFn(oldState, StateIdle)
	}
}

// WakeInterrupt reports an external hardware wake source firing. It is the
// equivalent event to a timer expiry and shares the same idempotent
// transition.
func (s *Scheduler) WakeInterrupt() {
	s.wake(WakeReasonInterrupt, 0)
}

// handleExpiry is the wake-timer callback.
func (s *Scheduler) handleExpiry(gen uint64) {
	s.wake(WakeReasonTimer, gen)
}

// wake clears the IDLE state. Waking an already NOT_IDLE node is a no-op, so
// a stale timer or interrupt after another wake source has run is harmless.
func (s *Scheduler) wake(reason WakeReason, gen uint64) {
	s.mu.Lock()

	if s.state == StateNotIdle {
		s.mu.Unlock()
		return
	}

	// An expiry that was already past the timer's own staleness check when
	// Schedule rearmed still carries the superseded generation; it must
	// not end the window the rearm just opened.
	if reason == WakeReasonTimer && gen != s.armGen {
		s.mu.Unlock()
		return
	}

	s.state = StateNotIdle
	s.timer.Stop()

	stateChangeFn := s.onStateChange
	wakeFn := s.onWake

	s.mu.Unlock()

	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.sessionID,
		Category:  log.CategoryState,
		Role:      log.RoleLowPower,
		StateChange: &log.StateChangeEvent{
			OldState: StateIdle.String(),
			NewState: StateNotIdle.String(),
			Reason:   reason.String(),
		},
	})

	if stateChangeFn != nil {
		stateChangeFn(StateIdle, StateNotIdle)
	}
	if wakeFn != nil {
		wakeFn(reason)
	}
}

// enterDeepSleep forwards the deep-sleep request to the platform.
func (s *Scheduler) enterDeepSleep(bound time.Duration) error {
	if s.platform == nil {
		return ErrNoPlatform
	}
	return s.platform.EnterDeepSleep(bound)
}

// logDecision emits a sleep decision event.
func (s *Scheduler) logDecision(decision Decision) {
	event := log.Event{
		Timestamp: time.Now(),
		SessionID: s.sessionID,
		Category:  log.CategorySleep,
		Role:      log.RoleLowPower,
		Sleep: &log.SleepEvent{
			Decision:   decision.Kind.String(),
			TimerArmed: decision.Kind == DecisionShortSleep,
		},
	}
	if decision.Duration != SleepUnbounded {
		d := decision.Duration
		event.Sleep.MaxSleep = &d
	}
	s.logger.Log(event)
}

// logError emits an error event.
func (s *Scheduler) logError(err error, context string) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.sessionID,
		Category:  log.CategoryError,
		Role:      log.RoleLowPower,
		Error: &log.ErrorEventData{
			Message: err.Error(),
			Context: context,
		},
	})
}
