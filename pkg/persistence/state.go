package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// DeviceState contains the runtime state persisted across power cycles.
type DeviceState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// OnOff contains per-element on/off snapshots so outputs can be
	// restored after shutdown sleep.
	OnOff map[uint8]OnOffSnapshot `json:"onoff,omitempty"`

	// Sleep captures the sleep machine state at save time.
	Sleep *SleepSnapshot `json:"sleep,omitempty"`
}

// OnOffSnapshot captures an element's on/off server state.
type OnOffSnapshot struct {
	// Present is the current on/off value.
	Present bool `json:"present"`

	// Target is the value being transitioned to.
	Target bool `json:"target,omitempty"`
}

// SleepSnapshot captures the sleep machine state for diagnostics after a
// timed wake. The idle flag itself is never restored: a boot always starts
// NOT_IDLE.
type SleepSnapshot struct {
	// Idle records whether the node was idle when it went down.
	Idle bool `json:"idle"`

	// Remaining is the wake-timer time that was left when saved.
	Remaining time.Duration `json:"remaining,omitempty"`
}

// Store manages persistence of device state to a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a device state store.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save persists the device state to disk.
func (s *Store) Save(state *DeviceState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the device state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *Store) Load() (*DeviceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &DeviceState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Clear removes the state file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
