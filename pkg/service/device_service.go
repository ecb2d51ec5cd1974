package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/config"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/log"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/model"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/onoff"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/persistence"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/sleep"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/version"
)

// Default device identity.
const (
	// DefaultCompanyID is the Bluetooth SIG company identifier.
	DefaultCompanyID uint16 = 0x0131

	// DefaultProductID is the product identifier.
	DefaultProductID uint16 = 0x3125

	// DefaultVendorID is the vendor-assigned version identifier.
	DefaultVendorID uint16 = 0x0002
)

// Service errors.
var (
	ErrMissingSettings = errors.New("service: settings are required")
	ErrMissingDeviceID = errors.New("service: device ID is required")
)

// BootReason describes why the device started.
type BootReason uint8

const (
	// BootPowerOn is a cold start from power application or reset.
	BootPowerOn BootReason = iota

	// BootTimedWake is a wake from deep sleep by the sleep bound elapsing.
	BootTimedWake

	// BootGPIOWake is a wake from deep sleep by the external wake pin.
	BootGPIOWake
)

// String returns the boot reason name.
func (r BootReason) String() string {
	switch r {
	case BootPowerOn:
		return "POWER_ON"
	case BootTimedWake:
		return "TIMED_WAKE"
	case BootGPIOWake:
		return "GPIO_WAKE"
	default:
		return "UNKNOWN"
	}
}

// Config holds everything needed to construct a DeviceService.
type Config struct {
	// DeviceID is the unique device identifier.
	DeviceID string

	// Firmware is the running firmware revision, published as a device
	// property.
	Firmware version.Firmware

	// Settings is the parsed device configuration.
	Settings *config.Config

	// Platform provides deep sleep and wake-source registration. May be
	// nil; the deep-sleep path then fails non-fatally.
	Platform Platform

	// Driver is the physical on/off output. May be nil.
	Driver onoff.Driver

	// EventLogger receives device events. May be nil.
	EventLogger log.Logger

	// StateStore persists state across power cycles. May be nil; the
	// on-power-up restore is then skipped.
	StateStore *persistence.Store

	// BootReason is the start reason reported by the platform.
	BootReason BootReason
}

// DeviceService is the device runtime. It owns the data model, the
// role-specific sleep machinery and the output bridge, and implements the
// Hooks contract for the mesh engine. All state hangs off this struct; there
// is no package-level mutable state.
type DeviceService struct {
	mu sync.Mutex

	// Configuration, fixed at construction
	settings   *config.Config
	firmware   version.Firmware
	bootReason BootReason

	// Owned components
	device *model.Device
	role   roleBehavior
	bridge *onoff.Bridge
	store  *persistence.Store
	logger log.Logger

	platform Platform

	// sessionID tags every event of this boot session.
	sessionID string

	// Init latch
	initialized bool
	provisioned bool
}

// NewDeviceService creates the device runtime for the configured role.
func NewDeviceService(cfg Config) (*DeviceService, error) {
	if cfg.Settings == nil {
		return nil, ErrMissingSettings
	}
	if cfg.DeviceID == "" {
		return nil, ErrMissingDeviceID
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}

	s := &DeviceService{
		settings:   cfg.Settings,
		firmware:   cfg.Firmware,
		bootReason: cfg.BootReason,
		store:      cfg.StateStore,
		logger:     log.OrNoop(cfg.EventLogger),
		platform:   cfg.Platform,
		sessionID:  uuid.NewString(),
	}

	s.device = model.NewDevice(cfg.DeviceID, DefaultCompanyID, DefaultProductID, DefaultVendorID)
	s.device.SetName(cfg.Settings.DeviceName)
	s.device.SetFeatures(cfg.Settings.Features())

	main := s.device.MainElement()
	main.AddModel(model.ModelDeviceServer)
	main.AddModel(model.ModelPowerOnOffServer)
	main.AddModel(model.ModelUserPropertyServer)

	property := model.NewProperty(model.PropertyDeviceFirmwareRevision, model.AccessReadable, version.PropertyLen)
	revision := cfg.Firmware.Property()
	if err := property.SetValue(revision[:]); err != nil {
		return nil, err
	}
	main.SetProperty(property)

	switch cfg.Settings.Role {
	case config.RoleLowPowerNode:
		scheduler := sleep.NewScheduler(sleep.Config{
			Policy:    cfg.Settings.SleepPolicy(),
			Platform:  cfg.Platform,
			Logger:    s.logger,
			SessionID: s.sessionID,
		})
		s.role = &lowPowerBehavior{scheduler: scheduler}
	case config.RoleFriendNode:
		s.role = friendBehavior{}
	}

	s.bridge = onoff.NewBridge(onoff.Config{
		Device:    s.device,
		Driver:    cfg.Driver,
		Logger:    s.logger,
		SessionID: s.sessionID,
	})

	return s, nil
}

// Device returns the device data model.
func (s *DeviceService) Device() *model.Device {
	return s.device
}

// Scheduler returns the sleep scheduler, or nil for a Friend node.
func (s *DeviceService) Scheduler() *sleep.Scheduler {
	return s.role.Scheduler()
}

// SessionID returns the boot session identifier.
func (s *DeviceService) SessionID() string {
	return s.sessionID
}

// Role returns the configured node role.
func (s *DeviceService) Role() config.Role {
	return s.settings.Role
}

// Settings returns the device configuration. The external mesh engine reads
// the friendship parameters from here unchanged.
func (s *DeviceService) Settings() *config.Config {
	return s.settings
}

// Init runs the one-time boot initialization: it emits the boot diagnostics
// event, restores persisted output state and, on a provisioned Low Power
// Node, registers the external wake source. A repeated call within the same
// boot session is a no-op. The provisioned flag of the first call wins; an
// unprovisioned node skips the sleep path until the next boot.
func (s *DeviceService) Init(provisioned bool) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true
	s.provisioned = provisioned
	s.mu.Unlock()

	s.logBoot(provisioned)
	s.restoreState()

	if provisioned && s.platform != nil && s.settings.Role == config.RoleLowPowerNode {
		scheduler := s.role.Scheduler()
		pin := s.settings.LowPower.WakeGPIO
		if err := s.platform.RegisterWakeSource(pin, scheduler.WakeInterrupt); err != nil {
			// The node still wakes by timer; only the GPIO path is lost.
			s.logError(err, "wake_source")
		}
	}

	return nil
}

// LPNSleep commits the node to a sleep window bounded by maxSleep. On a
// Friend node, or before a provisioned Init, this does nothing. Output state
// is persisted first so a shutdown sleep cannot lose it.
func (s *DeviceService) LPNSleep(maxSleep time.Duration) {
	s.mu.Lock()
	ready := s.initialized && s.provisioned
	s.mu.Unlock()

	if !ready {
		return
	}

	s.saveState()
	s.role.Sleep(maxSleep)
}

// OnStatus applies an inbound on/off status event to the element's server
// state and the physical output. Status handling is independent of the sleep
// state.
func (s *DeviceService) OnStatus(elementIdx uint8, status onoff.Status) {
	s.bridge.ApplyStatus(elementIdx, status)
}

// SleepPoll answers a platform power-manager sleep query.
func (s *DeviceService) SleepPoll(query sleep.Query) sleep.Answer {
	return s.role.Poll(query)
}

// OnFault sets a callback invoked when the output driver reports a fault.
func (s *DeviceService) OnFault(fn func(elementIdx uint8, err error)) {
	s.bridge.OnFault(fn)
}

// Close stops the wake timer and persists the current state.
func (s *DeviceService) Close() error {
	if scheduler := s.role.Scheduler(); scheduler != nil {
		scheduler.Timer().Stop()
	}
	return s.saveState()
}

// restoreState replays the persisted on/off state through the bridge for
// elements configured with power-up restore behavior.
func (s *DeviceService) restoreState() {
	if s.store == nil {
		return
	}

	state, err := s.store.Load()
	if err != nil {
		s.logError(err, "state_restore")
		return
	}
	if state == nil {
		return
	}

	for index, snapshot := range state.OnOff {
		element, err := s.device.Element(index)
		if err != nil || element.OnPowerUp() != model.PowerUpRestore {
			continue
		}
		s.bridge.ApplyStatus(index, onoff.Status{
			Present: snapshot.Present,
			Target:  snapshot.Target,
		})
	}
}

// saveState persists the current device state.
func (s *DeviceService) saveState() error {
	if s.store == nil {
		return nil
	}

	state := &persistence.DeviceState{
		OnOff: make(map[uint8]persistence.OnOffSnapshot),
	}
	for _, element := range s.device.Elements() {
		st := element.OnOff()
		state.OnOff[element.Index()] = persistence.OnOffSnapshot{
			Present: st.Present,
			Target:  st.Target,
		}
	}
	if scheduler := s.role.Scheduler(); scheduler != nil {
		state.Sleep = &persistence.SleepSnapshot{
			Idle:      scheduler.State() == sleep.StateIdle,
			Remaining: scheduler.Timer().Remaining(),
		}
	}

	if err := s.store.Save(state); err != nil {
		s.logError(err, "state_save")
		return err
	}
	return nil
}

// logBoot emits the boot diagnostics event.
func (s *DeviceService) logBoot(provisioned bool) {
	reason := s.bootReason.String()
	if !provisioned {
		reason += "_UNPROVISIONED"
	}
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.sessionID,
		Category:  log.CategoryBoot,
		Role:      s.role.LogRole(),
		DeviceID:  s.device.DeviceID(),
		Boot: &log.BootEvent{
			Reason:           reason,
			FirmwareRevision: s.firmware.String(),
		},
	})
}

// logError emits an error event.
func (s *DeviceService) logError(err error, context string) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.sessionID,
		Category:  log.CategoryError,
		Role:      s.role.LogRole(),
		DeviceID:  s.device.DeviceID(),
		Error: &log.ErrorEventData{
			Message: err.Error(),
			Context: context,
		},
	})
}
