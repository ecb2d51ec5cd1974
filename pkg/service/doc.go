// Package service provides the device runtime for a mesh node: it owns the
// data model, the sleep machinery and the on/off output bridge, and exposes
// the hook surface the external mesh engine calls into.
//
// # DeviceService
//
// DeviceService is the single owner of all mutable device state. It is
// created once at boot with the node configuration and the platform
// capabilities, and lives for the whole boot session:
//
//	cfg, err := config.Load("device.yaml")
//	if err != nil {
//		// handle error
//	}
//
//	svc, err := service.NewDeviceService(service.Config{
//		DeviceID:   "lpn-001",
//		Firmware:   version.Firmware{Major: 6, Minor: 2, Revision: 5},
//		Settings:   cfg,
//		Platform:   platform,
//		Driver:     ledDriver,
//		BootReason: service.BootPowerOn,
//	})
//	if err != nil {
//		// handle error
//	}
//
//	// Wire the service into the mesh engine as its hook set.
//	engine.SetHooks(svc)
//
// # Hooks
//
// The Hooks interface is the contract with the mesh engine. The engine calls
// Init once the stack is up, LPNSleep whenever the node becomes eligible to
// sleep, OnStatus for inbound on/off state events, and SleepPoll from the
// platform power manager before committing to a low-power mode. All hooks are
// safe for concurrent use.
//
// # Roles
//
// The node role is fixed at construction from the configuration: a Low Power
// Node runs the sleep scheduler and permission oracle, a Friend node keeps a
// message cache for its Low Power Nodes and never sleeps. There is no runtime
// role switching.
package service
