package wire

// DeviceType selects which kind of card a packet is addressed to.
type DeviceType uint8

const (
	// DeviceTypeController addresses the sender card itself.
	DeviceTypeController DeviceType = 0x00

	// DeviceTypeScanboard addresses receiving cards behind the sender.
	DeviceTypeScanboard DeviceType = 0x01
)

// String returns the device type name.
func (d DeviceType) String() string {
	switch d {
	case DeviceTypeController:
		return "CONTROLLER"
	case DeviceTypeScanboard:
		return "SCANBOARD"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if d is a known device type.
func (d DeviceType) IsValid() bool {
	return d == DeviceTypeController || d == DeviceTypeScanboard
}

// OpCode is the packet operation.
type OpCode uint8

const (
	// OpRead requests the current value of a feature.
	OpRead OpCode = 0x00

	// OpWrite sets a feature to the carried payload.
	OpWrite OpCode = 0x01
)

// String returns the op code name.
func (o OpCode) String() string {
	switch o {
	case OpRead:
		return "Read"
	case OpWrite:
		return "Write"
	default:
		return "Unknown"
	}
}

// IsValid returns true if o is a known op code.
func (o OpCode) IsValid() bool {
	return o == OpRead || o == OpWrite
}
