package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func TestFileLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.mlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	events := []Event{
		{
			Timestamp: time.Now().UTC(),
			SessionID: "boot-1",
			Category:  CategoryBoot,
			Boot:      &BootEvent{Reason: "POWER_ON"},
		},
		{
			Timestamp: time.Now().UTC(),
			SessionID: "boot-1",
			Category:  CategoryState,
			StateChange: &StateChangeEvent{
				OldState: "NOT_IDLE",
				NewState: "IDLE",
				Reason:   "SCHEDULE",
			},
		},
		{
			Timestamp: time.Now().UTC(),
			SessionID: "boot-1",
			Category:  CategoryError,
			Error:     &ErrorEventData{Message: "rejected", Context: "deep_sleep_request"},
		},
	}

	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Log after close is silently ignored
	logger.Log(events[0])

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer reader.Close()

	var got []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, event)
	}

	if len(got) != len(events) {
		t.Fatalf("read %d events, want %d", len(got), len(events))
	}
	if got[0].Boot == nil || got[0].Boot.Reason != "POWER_ON" {
		t.Errorf("event 0 boot payload = %+v", got[0].Boot)
	}
	if got[1].StateChange == nil || got[1].StateChange.NewState != "IDLE" {
		t.Errorf("event 1 state payload = %+v", got[1].StateChange)
	}
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.mlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	logger.Log(Event{Timestamp: time.Now(), SessionID: "a", Category: CategoryState})
	logger.Log(Event{Timestamp: time.Now(), SessionID: "b", Category: CategorySleep})
	logger.Log(Event{Timestamp: time.Now(), SessionID: "a", Category: CategorySleep})
	logger.Close()

	cat := CategorySleep
	reader, err := NewFilteredReader(path, Filter{SessionID: "a", Category: &cat})
	if err != nil {
		t.Fatalf("NewFilteredReader() error = %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if event.SessionID != "a" || event.Category != CategorySleep {
		t.Errorf("filtered event = %+v", event)
	}

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Next() after last match error = %v, want io.EOF", err)
	}
}
