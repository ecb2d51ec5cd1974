package service

import (
	"time"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/onoff"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/sleep"
)

// Hooks is the hook surface the external mesh engine calls into. The engine
// owns the radio and the mesh layers; the device core reacts to what the
// engine reports.
type Hooks interface {
	// Init is called once the mesh stack is up, with the provisioning
	// state of the node. A second call within the same boot session is a
	// no-op; initialization never runs twice.
	Init(provisioned bool) error

	// LPNSleep is called when the node has nothing left to send or
	// receive and may sleep for at most maxSleep. SleepUnbounded means the
	// engine places no limit.
	LPNSleep(maxSleep time.Duration)

	// OnStatus is called for an inbound on/off state event addressed to
	// the given element.
	OnStatus(elementIdx uint8, status onoff.Status)

	// SleepPoll answers a platform power-manager query about the node's
	// readiness to sleep. It never blocks.
	SleepPoll(query sleep.Query) sleep.Answer
}

// Platform is the hardware capability set the device runtime needs from the
// platform layer. It extends the scheduler's deep-sleep facility with wake
// source registration.
type Platform interface {
	sleep.Platform

	// RegisterWakeSource configures pin as an external wake interrupt and
	// installs fn as its handler. The handler may be invoked from an
	// interrupt goroutine at any time after registration.
	RegisterWakeSource(pin int, fn func()) error
}

var _ Hooks = (*DeviceService)(nil)
