// Command lpn-device is a reference Low Power Node implementation with a
// simulated platform.
//
// The binary hosts the device runtime against a simulated radio platform: the
// deep-sleep request and the wake GPIO are plain commands instead of silicon.
// It is meant for exercising the sleep scheduling behavior interactively and
// for producing event logs to inspect.
//
// Usage:
//
//	lpn-device [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-role string       Node role: low_power_node, friend_node (overrides config)
//	-name string       Device name (overrides config)
//	-id string         Device identifier (default auto-generated)
//	-firmware string   Firmware revision as major.minor.revision (default "6.2.5")
//	-event-log string  CBOR event log path (overrides config)
//	-state string      Persisted state file path (overrides config)
//	-boot-reason string  Boot reason: power_on, timed_wake, gpio_wake (default "power_on")
//	-reject-sleep      Simulated platform rejects deep-sleep requests
//
// Examples:
//
//	# Start a Low Power Node with defaults
//	lpn-device
//
//	# Start from a config file with an event log
//	lpn-device -config device.yaml -event-log events.cbor
//
//	# Exercise the rejected deep-sleep path
//	lpn-device -reject-sleep
//
//	# Simulate the boot after a GPIO wake from deep sleep
//	lpn-device -state state.json -boot-reason gpio_wake
package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"

	"github.com/lpmesh-protocol/lpmesh-go/cmd/lpn-device/interactive"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/config"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/log"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/persistence"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/service"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/version"
)

// Flags holds the parsed command-line options.
type Flags struct {
	ConfigFile  string
	Role        string
	DeviceName  string
	DeviceID    string
	Firmware    string
	EventLog    string
	StateFile   string
	BootReason  string
	RejectSleep bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&flags.Role, "role", "", "Node role: low_power_node, friend_node")
	flag.StringVar(&flags.DeviceName, "name", "", "Device name")
	flag.StringVar(&flags.DeviceID, "id", "", "Device identifier")
	flag.StringVar(&flags.Firmware, "firmware", "6.2.5", "Firmware revision (major.minor.revision)")
	flag.StringVar(&flags.EventLog, "event-log", "", "CBOR event log path")
	flag.StringVar(&flags.StateFile, "state", "", "Persisted state file path")
	flag.StringVar(&flags.BootReason, "boot-reason", "power_on", "Boot reason: power_on, timed_wake, gpio_wake")
	flag.BoolVar(&flags.RejectSleep, "reject-sleep", false, "Simulated platform rejects deep-sleep requests")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}

	firmware, err := version.Parse(flags.Firmware)
	if err != nil {
		stdlog.Fatalf("Invalid firmware revision: %v", err)
	}

	deviceID := flags.DeviceID
	if deviceID == "" {
		deviceID = "lpn-sim"
	}

	bootReason, err := parseBootReason(flags.BootReason)
	if err != nil {
		stdlog.Fatalf("Invalid boot reason: %v", err)
	}

	logger, closeLog, err := buildLogger(cfg)
	if err != nil {
		stdlog.Fatalf("Failed to open event log: %v", err)
	}
	defer closeLog()

	var store *persistence.Store
	if cfg.StateFile != "" {
		store = persistence.NewStore(cfg.StateFile)
	}

	platform := newSimPlatform(flags.RejectSleep)
	led := newLEDDriver()

	svc, err := service.NewDeviceService(service.Config{
		DeviceID:    deviceID,
		Firmware:    firmware,
		Settings:    cfg,
		Platform:    platform,
		Driver:      led,
		EventLogger: logger,
		StateStore:  store,
		BootReason:  bootReason,
	})
	if err != nil {
		stdlog.Fatalf("Failed to create device service: %v", err)
	}

	device, err := interactive.New(svc, platform, led)
	if err != nil {
		stdlog.Fatalf("Failed to create interactive device: %v", err)
	}
	platform.SetOutput(device.Stdout())
	led.SetOutput(device.Stdout())

	// The simulated mesh engine reports a provisioned node immediately.
	if err := svc.Init(true); err != nil {
		stdlog.Fatalf("Failed to initialize device: %v", err)
	}

	device.Run()

	if err := svc.Close(); err != nil {
		stdlog.Printf("Error closing device service: %v", err)
	}
}

// parseBootReason maps the -boot-reason flag value to a service boot reason.
func parseBootReason(s string) (service.BootReason, error) {
	switch s {
	case "power_on":
		return service.BootPowerOn, nil
	case "timed_wake":
		return service.BootTimedWake, nil
	case "gpio_wake":
		return service.BootGPIOWake, nil
	default:
		return service.BootPowerOn, fmt.Errorf("unknown boot reason %q (want power_on, timed_wake or gpio_wake)", s)
	}
}

// loadConfig builds the device configuration from file and flags.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config

	if flags.ConfigFile != "" {
		loaded, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{Role: config.RoleLowPowerNode, DeviceName: "LPN Simulator"}
	}

	if flags.Role != "" {
		cfg.Role = config.Role(flags.Role)
	}
	if flags.DeviceName != "" {
		cfg.DeviceName = flags.DeviceName
	}
	if flags.EventLog != "" {
		cfg.EventLog = flags.EventLog
	}
	if flags.StateFile != "" {
		cfg.StateFile = flags.StateFile
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildLogger assembles the event logger: debug output on stderr, plus the
// CBOR file log when configured.
func buildLogger(cfg *config.Config) (log.Logger, func(), error) {
	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	adapter := log.NewSlogAdapter(slogger)

	if cfg.EventLog == "" {
		return adapter, func() {}, nil
	}

	file, err := log.NewFileLogger(cfg.EventLog)
	if err != nil {
		return nil, nil, err
	}
	closeLog := func() {
		if err := file.Close(); err != nil {
			stdlog.Printf("Error closing event log: %v", err)
		}
	}
	return log.NewMultiLogger(file, adapter), closeLog, nil
}
