// Package model implements the mesh device composition data model.
//
// # Device Model Hierarchy
//
// A mesh node is composed of elements, each hosting a set of server models:
//
//	Device > Element > Model
//
// A Device represents the physical node (identity, features, firmware
// revision). Elements are addressable units within the node; every node has
// at least element 0 (the main element). Models are the server behaviors an
// element exposes to the mesh.
//
//	Device (lpn-led-01)
//	└── Element 0 (MAIN)
//	    ├── DeviceServer
//	    ├── UserPropertyServer
//	    └── PowerOnOffServer
//
// # Element State
//
// Each element carries the on/off server state (present and target values),
// its on-power-up behavior, and a property table. The firmware-revision user
// property is published on the main element so a configuration client can
// read the running firmware.
//
// The model is passive data: inbound status handling lives in pkg/onoff and
// sleep behavior in pkg/sleep.
package model
