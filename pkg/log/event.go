package log

import (
	"time"
)

// Event represents a device log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the boot session (UUID).
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Role indicates whether this node runs as a Low Power Node or Friend.
	Role Role `cbor:"4,keyasint,omitempty"`

	// DeviceID is the device identifier.
	DeviceID string `cbor:"5,keyasint,omitempty"`

	// ElementIndex is the mesh element the event relates to, if any.
	ElementIndex *uint8 `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"7,keyasint,omitempty"`  // Idle state machine
	Sleep       *SleepEvent       `cbor:"8,keyasint,omitempty"`  // Scheduling decisions
	Status      *StatusEvent      `cbor:"9,keyasint,omitempty"`  // Inbound on/off status
	Boot        *BootEvent        `cbor:"10,keyasint,omitempty"` // Boot diagnostics
	Error       *ErrorEventData   `cbor:"11,keyasint,omitempty"` // Errors at any layer
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates an idle-state transition.
	CategoryState Category = 0
	// CategorySleep indicates a sleep scheduling decision.
	CategorySleep Category = 1
	// CategoryStatus indicates an inbound on/off status event.
	CategoryStatus Category = 2
	// CategoryBoot indicates a boot diagnostics event.
	CategoryBoot Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategorySleep:
		return "SLEEP"
	case CategoryStatus:
		return "STATUS"
	case CategoryBoot:
		return "BOOT"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role indicates the node role within the mesh.
type Role uint8

const (
	// RoleLowPower indicates a Low Power Node.
	RoleLowPower Role = 0
	// RoleFriend indicates a Friend node.
	RoleFriend Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleLowPower:
		return "LOW_POWER"
	case RoleFriend:
		return "FRIEND"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures an idle-state transition.
type StateChangeEvent struct {
	// OldState is the state before the transition.
	OldState string `cbor:"1,keyasint"`

	// NewState is the state after the transition.
	NewState string `cbor:"2,keyasint"`

	// Reason describes what triggered the transition (e.g. "SCHEDULE",
	// "TIMER", "INTERRUPT").
	Reason string `cbor:"3,keyasint,omitempty"`
}

// SleepEvent captures a sleep scheduling decision.
type SleepEvent struct {
	// Decision is the chosen strategy ("SHORT_SLEEP" or "DEEP_SLEEP").
	Decision string `cbor:"1,keyasint"`

	// MaxSleep is the requested maximum sleep duration in nanoseconds.
	// Absent for an unbounded sleep.
	MaxSleep *time.Duration `cbor:"2,keyasint,omitempty"`

	// TimerArmed indicates whether the wake timer was armed.
	TimerArmed bool `cbor:"3,keyasint,omitempty"`
}

// StatusEvent captures an inbound on/off status applied to the output.
type StatusEvent struct {
	// Present is the present on/off value.
	Present bool `cbor:"1,keyasint"`

	// Target is the target on/off value during a transition.
	Target bool `cbor:"2,keyasint,omitempty"`

	// Remaining is the remaining transition time in nanoseconds.
	Remaining *time.Duration `cbor:"3,keyasint,omitempty"`
}

// BootEvent captures one-shot boot diagnostics.
type BootEvent struct {
	// Reason is the start reason ("POWER_ON", "TIMED_WAKE", "GPIO_WAKE").
	Reason string `cbor:"1,keyasint"`

	// FirmwareRevision is the published firmware revision property.
	FirmwareRevision string `cbor:"2,keyasint,omitempty"`
}

// ErrorEventData captures error information.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context provides additional context (e.g. "deep_sleep_request").
	Context string `cbor:"2,keyasint,omitempty"`
}
