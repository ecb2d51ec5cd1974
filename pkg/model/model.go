package model

// ModelID identifies a SIG server model hosted by an element.
type ModelID uint16

const (
	// ModelDeviceServer is the mandatory foundation model set.
	ModelDeviceServer ModelID = 0x0000

	// ModelUserPropertyServer exposes readable user properties.
	ModelUserPropertyServer ModelID = 0x1013

	// ModelPowerOnOffServer is the generic power on/off server.
	ModelPowerOnOffServer ModelID = 0x1006

	// ModelNetworkFilterServer is the optional directed-forwarding filter.
	ModelNetworkFilterServer ModelID = 0xBF30
)

// String returns the model name.
func (m ModelID) String() string {
	switch m {
	case ModelDeviceServer:
		return "DEVICE_SERVER"
	case ModelUserPropertyServer:
		return "USER_PROPERTY_SERVER"
	case ModelPowerOnOffServer:
		return "POWER_ONOFF_SERVER"
	case ModelNetworkFilterServer:
		return "NETWORK_FILTER_SERVER"
	default:
		return "UNKNOWN"
	}
}
