package sleep

// Query is the question the platform power manager asks before committing to
// a low-power mode.
type Query uint8

const (
	// QueryTimeToSleep asks how long the node wants to stay asleep.
	QueryTimeToSleep Query = iota

	// QuerySleepPermission asks whether the node may enter deep sleep.
	QuerySleepPermission
)

// String returns the query name.
func (q Query) String() string {
	switch q {
	case QueryTimeToSleep:
		return "TIME_TO_SLEEP"
	case QuerySleepPermission:
		return "SLEEP_PERMISSION"
	default:
		return "UNKNOWN"
	}
}

// Answer is the oracle's response to a power-manager query.
type Answer uint8

const (
	// AnswerNotAllowed means the node must stay awake.
	AnswerNotAllowed Answer = iota

	// AnswerMaxTimeToSleep means no constraint beyond what scheduling
	// already arranged; the platform ceiling applies.
	AnswerMaxTimeToSleep

	// AnswerAllowedWithRetention permits sleep preserving volatile state.
	AnswerAllowedWithRetention

	// AnswerAllowedWithShutdown permits sleep that loses volatile state.
	AnswerAllowedWithShutdown

	// AnswerNotSpecified gives no answer; the caller infers its default.
	AnswerNotSpecified
)

// String returns the answer name.
func (a Answer) String() string {
	switch a {
	case AnswerNotAllowed:
		return "NOT_ALLOWED"
	case AnswerMaxTimeToSleep:
		return "MAX_TIME_TO_SLEEP"
	case AnswerAllowedWithRetention:
		return "ALLOWED_WITH_RETENTION"
	case AnswerAllowedWithShutdown:
		return "ALLOWED_WITH_SHUTDOWN"
	case AnswerNotSpecified:
		return "NOT_SPECIFIED"
	default:
		return "UNKNOWN"
	}
}

// Allowed reports whether the answer permits entering sleep.
func (a Answer) Allowed() bool {
	return a == AnswerMaxTimeToSleep ||
		a == AnswerAllowedWithRetention ||
		a == AnswerAllowedWithShutdown
}

// Poll answers a power-manager query from the current idle state. It performs
// no mutation and is safe to call at arbitrary frequency from scheduler or
// interrupt context.
func (s *Scheduler) Poll(query Query) Answer {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()

	switch query {
	case QueryTimeToSleep:
		if state == StateNotIdle {
			return AnswerNotAllowed
		}
		return AnswerMaxTimeToSleep

	case QuerySleepPermission:
		if state != StateIdle {
			return AnswerNotSpecified
		}
		if s.policy.PermitShutdown {
			return AnswerAllowedWithShutdown
		}
		return AnswerAllowedWithRetention
	}

	return AnswerNotSpecified
}
