// Package interactive provides the interactive command-line interface for
// the lpn-device simulator.
package interactive

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/model"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/onoff"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/service"
	"github.com/lpmesh-protocol/lpmesh-go/pkg/sleep"
)

// SimPlatform is the simulated platform surface the interactive layer drives.
// The interface keeps this package independent of the main package's types.
type SimPlatform interface {
	// SetReject toggles deep-sleep rejection.
	SetReject(reject bool)

	// FireWake simulates the wake GPIO firing. Returns false when no wake
	// source is registered.
	FireWake() bool

	// DeepSleepCount returns how many deep sleeps were accepted.
	DeepSleepCount() int
}

// LED is the simulated output the interactive layer inspects.
type LED interface {
	// On returns the current LED value.
	On() bool
}

// Device handles interactive mode for lpn-device.
type Device struct {
	svc      *service.DeviceService
	platform SimPlatform
	led      LED
	rl       *readline.Instance
}

// New creates a new interactive device handler.
func New(svc *service.DeviceService, platform SimPlatform, led LED) (*Device, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lpn> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Device{
		svc:      svc,
		platform: platform,
		led:      led,
		rl:       rl,
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (d *Device) Stdout() io.Writer {
	return d.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (d *Device) Stderr() io.Writer {
	return d.rl.Stderr()
}

// Run starts the interactive command loop and blocks until exit.
func (d *Device) Run() {
	defer d.rl.Close()

	d.printHelp()

	for {
		line, err := d.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(d.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			d.printHelp()

		case "sleep", "s":
			d.cmdSleep(args)

		case "poll", "p":
			d.cmdPoll(args)

		case "wake", "w":
			d.cmdWake()

		case "onoff", "o":
			d.cmdOnOff(args)

		case "status":
			d.cmdStatus()

		case "inspect", "i":
			d.cmdInspect()

		case "reject":
			d.cmdReject(args)

		case "quit", "exit", "q":
			fmt.Fprintln(d.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(d.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (d *Device) printHelp() {
	fmt.Fprintln(d.rl.Stdout(), `
LPN Device Commands:
  Sleep:
    sleep <dur>|max    - Offer a sleep window (e.g. sleep 30s, sleep max)
    poll [tts|perm]    - Query the sleep oracle (both queries if omitted)
    wake               - Fire the simulated wake GPIO
    reject <on|off>    - Toggle platform deep-sleep rejection

  Output:
    onoff <on|off> [element]  - Deliver an on/off status event

  Inspection:
    status             - Show sleep state, timer and LED
    inspect            - Show device composition

  General:
    help               - Show this help
    quit               - Exit device`)
}

// cmdSleep handles the sleep command.
func (d *Device) cmdSleep(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.rl.Stdout(), "Usage: sleep <duration>|max")
		return
	}

	var maxSleep time.Duration
	if strings.EqualFold(args[0], "max") {
		maxSleep = sleep.SleepUnbounded
	} else {
		parsed, err := time.ParseDuration(args[0])
		if err != nil || parsed <= 0 {
			fmt.Fprintf(d.rl.Stdout(), "Invalid duration: %s\n", args[0])
			return
		}
		maxSleep = parsed
	}

	d.svc.LPNSleep(maxSleep)
	d.printSleepState()
}

// cmdPoll handles the poll command.
func (d *Device) cmdPoll(args []string) {
	queries := []sleep.Query{sleep.QueryTimeToSleep, sleep.QuerySleepPermission}
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "tts", "time":
			queries = []sleep.Query{sleep.QueryTimeToSleep}
		case "perm", "permission":
			queries = []sleep.Query{sleep.QuerySleepPermission}
		default:
			fmt.Fprintln(d.rl.Stdout(), "Usage: poll [tts|perm]")
			return
		}
	}

	for _, query := range queries {
		answer := d.svc.SleepPoll(query)
		fmt.Fprintf(d.rl.Stdout(), "%-16s -> %s\n", query, answer)
	}
}

// cmdWake handles the wake command.
func (d *Device) cmdWake() {
	if !d.platform.FireWake() {
		fmt.Fprintln(d.rl.Stdout(), "No wake source registered")
		return
	}
	d.printSleepState()
}

// cmdOnOff handles the onoff command.
func (d *Device) cmdOnOff(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(d.rl.Stdout(), "Usage: onoff <on|off> [element]")
		return
	}

	var on bool
	switch strings.ToLower(args[0]) {
	case "on", "1":
		on = true
	case "off", "0":
		on = false
	default:
		fmt.Fprintf(d.rl.Stdout(), "Invalid value: %s\n", args[0])
		return
	}

	elementIdx := uint8(0)
	if len(args) == 2 {
		idx, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			fmt.Fprintf(d.rl.Stdout(), "Invalid element index: %s\n", args[1])
			return
		}
		elementIdx = uint8(idx)
	}

	d.svc.OnStatus(elementIdx, onoff.Status{Present: on, Target: on})
}

// cmdStatus handles the status command.
func (d *Device) cmdStatus() {
	out := d.rl.Stdout()

	fmt.Fprintf(out, "Role:        %s\n", d.svc.Role())
	fmt.Fprintf(out, "Session:     %s\n", d.svc.SessionID())

	if scheduler := d.svc.Scheduler(); scheduler != nil {
		fmt.Fprintf(out, "Sleep state: %s\n", scheduler.State())
		timer := scheduler.Timer()
		if timer.Armed() {
			fmt.Fprintf(out, "Wake timer:  armed, %v remaining of %v\n",
				timer.Remaining().Round(time.Millisecond), timer.Duration())
		} else {
			fmt.Fprintln(out, "Wake timer:  not armed")
		}
		fmt.Fprintf(out, "Deep sleeps: %d\n", d.platform.DeepSleepCount())
	}

	if d.led.On() {
		fmt.Fprintln(out, "LED:         ON")
	} else {
		fmt.Fprintln(out, "LED:         OFF")
	}
}

// cmdInspect handles the inspect command.
func (d *Device) cmdInspect() {
	out := d.rl.Stdout()
	device := d.svc.Device()

	fmt.Fprintf(out, "Device %s (%s)\n", device.DeviceID(), device.Name())
	fmt.Fprintf(out, "  Company 0x%04X, Product 0x%04X, Vendor 0x%04X\n",
		device.CompanyID(), device.ProductID(), device.VendorID())
	fmt.Fprintf(out, "  Features: %s\n", featureNames(device))

	for _, element := range device.Elements() {
		state := element.OnOff()
		fmt.Fprintf(out, "  Element %d (location 0x%04X, power-up %s, onoff %v)\n",
			element.Index(), uint16(element.Location()), element.OnPowerUp(), state.Present)
		for _, id := range element.Models() {
			fmt.Fprintf(out, "    Model 0x%04X %s\n", uint16(id), id)
		}
		if property, err := element.Property(model.PropertyDeviceFirmwareRevision); err == nil {
			fmt.Fprintf(out, "    Firmware property: %s\n", property.Value())
		}
	}
}

// cmdReject handles the reject command.
func (d *Device) cmdReject(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.rl.Stdout(), "Usage: reject <on|off>")
		return
	}

	switch strings.ToLower(args[0]) {
	case "on":
		d.platform.SetReject(true)
		fmt.Fprintln(d.rl.Stdout(), "Platform now rejects deep sleep")
	case "off":
		d.platform.SetReject(false)
		fmt.Fprintln(d.rl.Stdout(), "Platform now accepts deep sleep")
	default:
		fmt.Fprintln(d.rl.Stdout(), "Usage: reject <on|off>")
	}
}

// printSleepState shows the sleep state after a command that changes it.
func (d *Device) printSleepState() {
	scheduler := d.svc.Scheduler()
	if scheduler == nil {
		fmt.Fprintln(d.rl.Stdout(), "No sleep scheduler (friend role)")
		return
	}

	timer := scheduler.Timer()
	if timer.Armed() {
		fmt.Fprintf(d.rl.Stdout(), "State %s, wake timer armed for %v\n",
			scheduler.State(), timer.Duration())
	} else {
		fmt.Fprintf(d.rl.Stdout(), "State %s, wake timer not armed\n", scheduler.State())
	}
}

// featureNames renders the advertised feature bits.
func featureNames(device *model.Device) string {
	var names []string
	if device.HasFeature(model.FeatureLowPower) {
		names = append(names, "LOW_POWER")
	}
	if device.HasFeature(model.FeatureFriend) {
		names = append(names, "FRIEND")
	}
	if device.HasFeature(model.FeatureRelay) {
		names = append(names, "RELAY")
	}
	if device.HasFeature(model.FeatureProxy) {
		names = append(names, "PROXY")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
