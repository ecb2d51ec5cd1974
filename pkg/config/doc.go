// Package config loads and validates device configuration.
//
// Configuration selects the node role (low-power vs friend) and carries the
// friendship timing parameters the external mesh engine consumes unchanged:
// the core never reinterprets them. Sleep policy knobs (short-sleep ceiling,
// shutdown permission) are the only fields the core itself acts on.
package config
