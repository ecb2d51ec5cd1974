package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/model"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/sleep"
)

// Role selects which feature set the node runs.
type Role string

const (
	// RoleLowPowerNode enables the sleep scheduler, permission oracle and
	// wake timer. No relay, no proxy, no friend cache.
	RoleLowPowerNode Role = "low_power_node"

	// RoleFriendNode enables the friend cache and relay/proxy features and
	// disables the sleep path.
	RoleFriendNode Role = "friend_node"
)

// Default friendship parameters for a Low Power Node, requested from the
// Friend during friendship establishment.
const (
	DefaultReceiveDelay        = Duration(100 * time.Millisecond)
	DefaultPollTimeout         = Duration(20 * time.Second)
	DefaultRSSIFactor          = 2
	DefaultReceiveWindowFactor = 2
	DefaultMinCacheSizeLog     = 3
)

// Default friend-cache parameters for a Friend node.
const (
	DefaultReceiveWindow  = Duration(20 * time.Millisecond)
	DefaultCacheBufferLen = 300
	DefaultMaxLPN         = 4
)

// Config errors.
var (
	ErrMissingRole = errors.New("config: role is required")
)

// LoadError describes a configuration load failure.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Config is the device configuration.
type Config struct {
	// DeviceName is the advertised device name.
	DeviceName string `yaml:"device_name"`

	// Role selects the node feature set.
	Role Role `yaml:"role"`

	// LowPower configures the low-power path (RoleLowPowerNode).
	LowPower LowPower `yaml:"low_power"`

	// Friend configures the friend cache (RoleFriendNode).
	Friend Friend `yaml:"friend"`

	// EventLog is the path for the CBOR event log; empty disables it.
	EventLog string `yaml:"event_log"`

	// StateFile is the path for persisted device state; empty disables
	// on-power-up restore.
	StateFile string `yaml:"state_file"`
}

// LowPower holds the low-power node parameters. The friendship fields are
// passed through to the mesh engine unchanged.
type LowPower struct {
	// ReceiveDelay is requested from the Friend: the gap between a poll
	// and the start of the receive window.
	ReceiveDelay Duration `yaml:"receive_delay"`

	// PollTimeout bounds the interval between two consecutive polls, and
	// with it the largest schedulable sleep.
	PollTimeout Duration `yaml:"poll_timeout"`

	// RSSIFactor weights the Friend-measured RSSI in offer delay
	// calculations.
	RSSIFactor uint8 `yaml:"rssi_factor"`

	// ReceiveWindowFactor weights the supported receive window in offer
	// delay calculations.
	ReceiveWindowFactor uint8 `yaml:"receive_window_factor"`

	// MinCacheSizeLog is the minimum Friend cache size (log2).
	MinCacheSizeLog uint8 `yaml:"min_cache_size_log"`

	// ShortSleepCeiling is the boundary between timer-gated light sleep
	// and interrupt-woken deep sleep. Zero selects the default.
	ShortSleepCeiling Duration `yaml:"short_sleep_ceiling"`

	// DeepSleepOnly forces the deep-sleep path regardless of duration.
	DeepSleepOnly bool `yaml:"deep_sleep_only"`

	// PermitShutdown allows sleep modes that lose volatile state.
	PermitShutdown bool `yaml:"permit_shutdown"`

	// WakeGPIO is the pin number of the external wake source.
	WakeGPIO int `yaml:"wake_gpio"`
}

// Friend holds the friend-node cache parameters.
type Friend struct {
	// ReceiveWindow is the window the Friend keeps open after a poll.
	ReceiveWindow Duration `yaml:"receive_window"`

	// CacheBufferLen is the friend cache buffer length in bytes.
	CacheBufferLen int `yaml:"cache_buffer_len"`

	// MaxLPN is the maximum number of Low Power Nodes with established
	// friendship. Must be > 0 for a friend node.
	MaxLPN int `yaml:"max_lpn"`
}

// Parse parses configuration from YAML bytes and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields for the selected role. Parse calls
// this; configurations assembled in code call it before Validate.
func (c *Config) ApplyDefaults() {
	if c.Role == RoleLowPowerNode {
		if c.LowPower.ReceiveDelay == 0 {
			c.LowPower.ReceiveDelay = DefaultReceiveDelay
		}
		if c.LowPower.PollTimeout == 0 {
			c.LowPower.PollTimeout = DefaultPollTimeout
		}
		if c.LowPower.RSSIFactor == 0 {
			c.LowPower.RSSIFactor = DefaultRSSIFactor
		}
		if c.LowPower.ReceiveWindowFactor == 0 {
			c.LowPower.ReceiveWindowFactor = DefaultReceiveWindowFactor
		}
		if c.LowPower.MinCacheSizeLog == 0 {
			c.LowPower.MinCacheSizeLog = DefaultMinCacheSizeLog
		}
	}

	if c.Role == RoleFriendNode {
		if c.Friend.ReceiveWindow == 0 {
			c.Friend.ReceiveWindow = DefaultReceiveWindow
		}
		if c.Friend.CacheBufferLen == 0 {
			c.Friend.CacheBufferLen = DefaultCacheBufferLen
		}
		if c.Friend.MaxLPN == 0 {
			c.Friend.MaxLPN = DefaultMaxLPN
		}
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Role {
	case RoleLowPowerNode:
		if c.LowPower.PollTimeout <= c.LowPower.ReceiveDelay {
			return fmt.Errorf("config: poll_timeout (%v) must exceed receive_delay (%v)",
				c.LowPower.PollTimeout, c.LowPower.ReceiveDelay)
		}
	case RoleFriendNode:
		if c.Friend.MaxLPN <= 0 {
			return fmt.Errorf("config: max_lpn must be > 0 for a friend node")
		}
	case "":
		return ErrMissingRole
	default:
		return fmt.Errorf("config: unknown role %q", c.Role)
	}
	return nil
}

// SleepPolicy derives the sleep policy from the low-power section.
func (c *Config) SleepPolicy() sleep.Policy {
	return sleep.Policy{
		ShortSleepCeiling: c.LowPower.ShortSleepCeiling.Std(),
		DeepSleepOnly:     c.LowPower.DeepSleepOnly,
		PermitShutdown:    c.LowPower.PermitShutdown,
	}
}

// Features returns the advertised feature bits for the configured role.
// A Low Power Node advertises no relay, no proxy and no friend cache.
func (c *Config) Features() model.Feature {
	if c.Role == RoleLowPowerNode {
		return model.FeatureLowPower
	}
	return model.FeatureFriend | model.FeatureRelay | model.FeatureProxy
}
