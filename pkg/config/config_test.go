package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/model"
)

func TestParseLowPowerNode(t *testing.T) {
	data := []byte(`
device_name: Low Power LED
role: low_power_node
low_power:
  receive_delay: 100ms
  poll_timeout: 20s
  short_sleep_ceiling: 2m
  permit_shutdown: true
  wake_gpio: 4
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Role != RoleLowPowerNode {
		t.Errorf("Role = %q", cfg.Role)
	}
	if cfg.DeviceName != "Low Power LED" {
		t.Errorf("DeviceName = %q", cfg.DeviceName)
	}
	if cfg.LowPower.PollTimeout.Std() != 20*time.Second {
		t.Errorf("PollTimeout = %v", cfg.LowPower.PollTimeout)
	}
	if cfg.LowPower.WakeGPIO != 4 {
		t.Errorf("WakeGPIO = %d", cfg.LowPower.WakeGPIO)
	}

	policy := cfg.SleepPolicy()
	if policy.ShortSleepCeiling != 2*time.Minute {
		t.Errorf("ShortSleepCeiling = %v", policy.ShortSleepCeiling)
	}
	if !policy.PermitShutdown {
		t.Error("PermitShutdown = false")
	}

	if cfg.Features() != model.FeatureLowPower {
		t.Errorf("Features() = %#x, want FeatureLowPower", cfg.Features())
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("role: low_power_node\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.LowPower.ReceiveDelay != DefaultReceiveDelay {
		t.Errorf("ReceiveDelay = %v, want default", cfg.LowPower.ReceiveDelay)
	}
	if cfg.LowPower.PollTimeout != DefaultPollTimeout {
		t.Errorf("PollTimeout = %v, want default", cfg.LowPower.PollTimeout)
	}
	if cfg.LowPower.RSSIFactor != DefaultRSSIFactor {
		t.Errorf("RSSIFactor = %d, want default", cfg.LowPower.RSSIFactor)
	}
	if cfg.LowPower.MinCacheSizeLog != DefaultMinCacheSizeLog {
		t.Errorf("MinCacheSizeLog = %d, want default", cfg.LowPower.MinCacheSizeLog)
	}
}

func TestParseFriendNode(t *testing.T) {
	cfg, err := Parse([]byte("role: friend_node\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Friend.ReceiveWindow != DefaultReceiveWindow {
		t.Errorf("ReceiveWindow = %v, want default", cfg.Friend.ReceiveWindow)
	}
	if cfg.Friend.CacheBufferLen != DefaultCacheBufferLen {
		t.Errorf("CacheBufferLen = %d, want default", cfg.Friend.CacheBufferLen)
	}
	if cfg.Friend.MaxLPN != DefaultMaxLPN {
		t.Errorf("MaxLPN = %d, want default", cfg.Friend.MaxLPN)
	}

	want := model.FeatureFriend | model.FeatureRelay | model.FeatureProxy
	if cfg.Features() != want {
		t.Errorf("Features() = %#x, want %#x", cfg.Features(), want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"MissingRole", "device_name: x\n"},
		{"UnknownRole", "role: relay_node\n"},
		{"PollTimeoutTooSmall", "role: low_power_node\nlow_power:\n  receive_delay: 30s\n  poll_timeout: 1s\n"},
		{"BadYAML", "role: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() succeeded, want error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.yaml")
	if err := os.WriteFile(path, []byte("role: low_power_node\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Role != RoleLowPowerNode {
		t.Errorf("Role = %q", cfg.Role)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load() succeeded for missing file")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Errorf("error type = %T, want *LoadError", err)
	}
}
