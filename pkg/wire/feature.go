package wire

import "fmt"

// FeatureAddress identifies the device parameter a packet reads or writes.
type FeatureAddress uint32

const (
	// ControllerModelIdAddr holds the sender card model identifier (2 bytes).
	ControllerModelIdAddr FeatureAddress = 0x00000002

	// GlobalBrightnessAddr holds the screen brightness (1 byte, 0-255).
	GlobalBrightnessAddr FeatureAddress = 0x02000001
)

// String returns the feature name.
func (f FeatureAddress) String() string {
	switch f {
	case ControllerModelIdAddr:
		return "ControllerModelId"
	case GlobalBrightnessAddr:
		return "GlobalBrightness"
	default:
		return fmt.Sprintf("Feature(0x%08X)", uint32(f))
	}
}

// IsValid returns true if f is a known feature address.
func (f FeatureAddress) IsValid() bool {
	_, ok := featurePayloadLen[f]
	return ok
}

// PayloadLen returns the number of payload bytes the device returns when
// the feature is read. Unknown features report 0.
func (f FeatureAddress) PayloadLen() int {
	return featurePayloadLen[f]
}

var featurePayloadLen = map[FeatureAddress]int{
	ControllerModelIdAddr: 2,
	GlobalBrightnessAddr:  1,
}
