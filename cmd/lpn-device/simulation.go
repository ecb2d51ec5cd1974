package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/sleep"
)

// simPlatform is the simulated hardware platform. Deep sleep is a printed
// line instead of a power-down, and the wake GPIO fires on command.
type simPlatform struct {
	mu     sync.Mutex
	out    io.Writer
	reject bool

	wakePin int
	wakeFn  func()

	deepSleeps int
}

func newSimPlatform(reject bool) *simPlatform {
	return &simPlatform{out: os.Stdout, reject: reject}
}

// SetOutput redirects platform messages, used to coordinate with readline.
func (p *simPlatform) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = w
}

// SetReject toggles deep-sleep rejection.
func (p *simPlatform) SetReject(reject bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reject = reject
}

// EnterDeepSleep implements sleep.Platform.
func (p *simPlatform) EnterDeepSleep(bound time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.reject {
		fmt.Fprintln(p.out, "[PLATFORM] deep sleep REJECTED")
		return fmt.Errorf("platform busy")
	}

	p.deepSleeps++
	if bound == sleep.SleepUnbounded {
		fmt.Fprintln(p.out, "[PLATFORM] entering deep sleep (unbounded, wake on GPIO)")
	} else {
		fmt.Fprintf(p.out, "[PLATFORM] entering deep sleep (bound %v)\n", bound)
	}
	return nil
}

// RegisterWakeSource implements service.Platform.
func (p *simPlatform) RegisterWakeSource(pin int, fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wakePin = pin
	p.wakeFn = fn
	fmt.Fprintf(p.out, "[PLATFORM] wake source registered on GPIO %d\n", pin)
	return nil
}

// FireWake simulates the wake GPIO firing.
func (p *simPlatform) FireWake() bool {
	p.mu.Lock()
	fn := p.wakeFn
	p.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// DeepSleepCount returns how many deep sleeps the platform accepted.
func (p *simPlatform) DeepSleepCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deepSleeps
}

// ledDriver is the simulated output: an LED printed to the console.
type ledDriver struct {
	mu  sync.Mutex
	out io.Writer
	on  bool
}

func newLEDDriver() *ledDriver {
	return &ledDriver{out: os.Stdout}
}

// SetOutput redirects driver messages, used to coordinate with readline.
func (d *ledDriver) SetOutput(w io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.out = w
}

// SetOnOff implements onoff.Driver.
func (d *ledDriver) SetOnOff(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.on = on
	if on {
		fmt.Fprintln(d.out, "[LED] ON")
	} else {
		fmt.Fprintln(d.out, "[LED] OFF")
	}
	return nil
}

// On returns the current LED value.
func (d *ledDriver) On() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.on
}
