package persistence

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "device.json")
	store := NewStore(path)

	state := &DeviceState{
		OnOff: map[uint8]OnOffSnapshot{
			0: {Present: true, Target: true},
		},
		Sleep: &SleepSnapshot{Idle: true, Remaining: 30 * time.Second},
	}

	if err := store.Save(state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil after Save")
	}

	if loaded.Version != StateVersion {
		t.Errorf("Version = %d, want %d", loaded.Version, StateVersion)
	}
	if loaded.SavedAt.IsZero() {
		t.Error("SavedAt not stamped")
	}

	snap, ok := loaded.OnOff[0]
	if !ok {
		t.Fatal("element 0 snapshot missing")
	}
	if !snap.Present || !snap.Target {
		t.Errorf("onoff snapshot = %+v, want both true", snap)
	}

	if loaded.Sleep == nil || !loaded.Sleep.Idle {
		t.Errorf("sleep snapshot = %+v", loaded.Sleep)
	}
	if loaded.Sleep.Remaining != 30*time.Second {
		t.Errorf("Remaining = %v, want 30s", loaded.Sleep.Remaining)
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))

	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state != nil {
		t.Errorf("Load() = %+v for missing file, want nil", state)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.json")
	store := NewStore(path)

	if err := store.Save(&DeviceState{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	state, err := store.Load()
	if err != nil || state != nil {
		t.Errorf("Load() after Clear = %+v, %v; want nil, nil", state, err)
	}

	// Clearing twice is fine
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}
