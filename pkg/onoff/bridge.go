package onoff

import (
	"time"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/log"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/model"
)

// Status is an inbound on/off state-change event from the mesh engine.
type Status struct {
	// Present is the current on/off value.
	Present bool

	// Target is the value being transitioned to.
	Target bool

	// Remaining is the remaining transition time, zero when settled.
	Remaining time.Duration
}

// Driver is the physical output abstraction (LED, relay, actuator).
// Implementations report a device fault through the returned error; absent
// such reporting, failures are silent.
type Driver interface {
	// SetOnOff drives the output to the given value.
	SetOnOff(on bool) error
}

// Config holds bridge configuration.
type Config struct {
	// Device is the node's data model; the applied status is mirrored into
	// the target element's on/off server state. May be nil.
	Device *model.Device

	// Driver is the physical output. May be nil; statuses are then only
	// mirrored into the model.
	Driver Driver

	// Logger receives status and fault events. May be nil.
	Logger log.Logger

	// SessionID tags log events with the boot session.
	SessionID string
}

// Bridge applies inbound on/off status events to the physical output.
type Bridge struct {
	device    *model.Device
	driver    Driver
	logger    log.Logger
	sessionID string

	onFault func(elementIdx uint8, err error)
}

// NewBridge creates a status bridge.
func NewBridge(cfg Config) *Bridge {
	return &Bridge{
		device:    cfg.Device,
		driver:    cfg.Driver,
		logger:    log.OrNoop(cfg.Logger),
		sessionID: cfg.SessionID,
	}
}

// OnFault sets a callback invoked when the driver reports a fault.
func (b *Bridge) OnFault(fn func(elementIdx uint8, err error)) {
	b.onFault = fn
}

// ApplyStatus applies an inbound status event for the given element: the
// element's on/off server state is updated and the present value forwarded
// to the driver. Driver faults are reported through OnFault and the event
// log; they are not recoverable locally.
func (b *Bridge) ApplyStatus(elementIdx uint8, status Status) {
	if b.device != nil {
		if element, err := b.device.Element(elementIdx); err == nil {
			element.SetOnOff(model.OnOffState{
				Present: status.Present,
				Target:  status.Target,
			})
		}
	}

	b.logStatus(elementIdx, status)

	if b.driver == nil {
		return
	}

	if err := b.driver.SetOnOff(status.Present); err != nil {
		b.logger.Log(log.Event{
			Timestamp:    time.Now(),
			SessionID:    b.sessionID,
			Category:     log.CategoryError,
			ElementIndex: &elementIdx,
			Error: &log.ErrorEventData{
				Message: err.Error(),
				Context: "output_driver",
			},
		})
		if b.onFault != nil {
			b.onFault(elementIdx, err)
		}
	}
}

// logStatus emits a status event.
func (b *Bridge) logStatus(elementIdx uint8, status Status) {
	event := log.Event{
		Timestamp:    time.Now(),
		SessionID:    b.sessionID,
		Category:     log.CategoryStatus,
		ElementIndex: &elementIdx,
		Status: &log.StatusEvent{
			Present: status.Present,
			Target:  status.Target,
		},
	}
	if status.Remaining > 0 {
		r := status.Remaining
		event.Status.Remaining = &r
	}
	b.logger.Log(event)
}
