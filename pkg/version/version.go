// Package version formats the device firmware revision property.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// PropertyLen is the length of the firmware-revision device property.
const PropertyLen = 8

// base64Chars is the standard base64 alphabet used for the build suffix.
const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Firmware is a parsed firmware revision.
type Firmware struct {
	// Major and Minor are the SDK release numbers (0-99).
	Major uint8
	Minor uint8

	// Revision is the patch number (0-99).
	Revision uint8

	// Build is the 12-bit build number encoded into the property suffix.
	Build uint16
}

// Parse parses a "major.minor.revision" firmware string.
func Parse(s string) (Firmware, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Firmware{}, fmt.Errorf("invalid firmware %q: expected major.minor.revision", s)
	}

	fields := make([]uint8, 3)
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil || part == "" || v > 99 {
			return Firmware{}, fmt.Errorf("invalid firmware %q: bad component %q", s, part)
		}
		fields[i] = uint8(v)
	}

	return Firmware{Major: fields[0], Minor: fields[1], Revision: fields[2]}, nil
}

// String returns the revision as zero-padded "major.minor.revision".
func (f Firmware) String() string {
	return fmt.Sprintf("%02d.%02d.%02d", f.Major, f.Minor, f.Revision)
}

// Encode6Bits encodes the low 6 bits of v as a base64 character.
func Encode6Bits(v uint8) byte {
	return base64Chars[v&0x3f]
}

// Property renders the 8-byte firmware-revision property: six ASCII digits
// for major/minor/revision followed by the 12-bit build number as two
// big-endian base64 characters.
func (f Firmware) Property() [PropertyLen]byte {
	var p [PropertyLen]byte

	p[0] = '0' + f.Major/10
	p[1] = '0' + f.Major%10
	p[2] = '0' + f.Minor/10
	p[3] = '0' + f.Minor%10
	p[4] = '0' + f.Revision/10
	p[5] = '0' + f.Revision%10
	p[6] = Encode6Bits(uint8(f.Build >> 6))
	p[7] = Encode6Bits(uint8(f.Build))

	return p
}
