package model

import (
	"sync"
	"time"
)

// Location describes an element per the Bluetooth namespace descriptors.
type Location uint16

const (
	// LocationMain is the main element location.
	LocationMain Location = 0x0100
)

// OnPowerUpState selects element behavior after a power cycle.
type OnPowerUpState uint8

const (
	// PowerUpOff starts the element off.
	PowerUpOff OnPowerUpState = 0

	// PowerUpOn starts the element on (default value).
	PowerUpOn OnPowerUpState = 1

	// PowerUpRestore restores the last known state. A Low Power Node uses
	// this so the output survives a shutdown sleep.
	PowerUpRestore OnPowerUpState = 2
)

// String returns the power-up behavior name.
func (s OnPowerUpState) String() string {
	switch s {
	case PowerUpOff:
		return "OFF"
	case PowerUpOn:
		return "ON"
	case PowerUpRestore:
		return "RESTORE"
	default:
		return "UNKNOWN"
	}
}

// DefaultTransitionTime is the default state transition time for models of
// an element.
const DefaultTransitionTime = 100 * time.Millisecond

// OnOffState is the generic on/off server state of an element.
type OnOffState struct {
	// Present is the current on/off value.
	Present bool

	// Target is the value being transitioned to.
	Target bool
}

// Element is an addressable unit within a device hosting server models.
type Element struct {
	mu sync.RWMutex

	// index is the element index within the device.
	index uint8

	// location per the Bluetooth namespace descriptors.
	location Location

	// onPowerUp selects behavior after a power cycle.
	onPowerUp OnPowerUpState

	// transitionTime is the default transition time for the element's models.
	transitionTime time.Duration

	// onoff is the generic on/off server state.
	onoff OnOffState

	// models hosted by this element.
	models []ModelID

	// properties indexed by property ID.
	properties map[PropertyID]*Property
}

// NewElement creates an element with default power-up restore behavior.
func NewElement(index uint8, location Location) *Element {
	return &Element{
		index:          index,
		location:       location,
		onPowerUp:      PowerUpRestore,
		transitionTime: DefaultTransitionTime,
		properties:     make(map[PropertyID]*Property),
	}
}

// Index returns the element index.
func (e *Element) Index() uint8 {
	return e.index
}

// Location returns the element location.
func (e *Element) Location() Location {
	return e.location
}

// OnPowerUp returns the power-up behavior.
func (e *Element) OnPowerUp() OnPowerUpState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.onPowerUp
}

// SetOnPowerUp sets the power-up behavior.
func (e *Element) SetOnPowerUp(s OnPowerUpState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onPowerUp = s
}

// TransitionTime returns the default transition time.
func (e *Element) TransitionTime() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.transitionTime
}

// SetTransitionTime sets the default transition time.
func (e *Element) SetTransitionTime(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transitionTime = d
}

// OnOff returns the on/off server state.
func (e *Element) OnOff() OnOffState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.onoff
}

// SetOnOff sets the on/off server state.
func (e *Element) SetOnOff(state OnOffState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onoff = state
}

// AddModel registers a server model on the element.
func (e *Element) AddModel(id ModelID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.models = append(e.models, id)
}

// Models returns the models hosted by the element.
func (e *Element) Models() []ModelID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]ModelID, len(e.models))
	copy(out, e.models)
	return out
}

// HasModel reports whether the element hosts the given model.
func (e *Element) HasModel(id ModelID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, m := range e.models {
		if m == id {
			return true
		}
	}
	return false
}
