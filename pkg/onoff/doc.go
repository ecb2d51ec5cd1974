// Package onoff bridges inbound mesh on/off status events to the physical
// output driver. The bridge is a side-effecting sink: it mirrors the status
// into the element's on/off server state and forwards the present value to
// the driver, independent of the node's sleep state.
package onoff
