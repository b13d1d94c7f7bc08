package wire

import "fmt"

// Model is the hardware variant a sender card reports through
// ControllerModelIdAddr.
type Model uint16

const (
	// ModelUnknown is used for every identifier without a known name.
	ModelUnknown Model = 0xFFFF

	// ModelMCTRL300 is the MCTRL300 sender card.
	ModelMCTRL300 Model = 0x0001

	// ModelMCTRL600 covers the MCTRL600 and MCTRL660, which share an id.
	ModelMCTRL600 Model = 0x1101
)

var modelNames = map[Model]string{
	ModelMCTRL300: "MCTRL300",
	ModelMCTRL600: "MCTRL600/660",
}

// ParseModel resolves a raw model identifier. The second result is false
// when the identifier has no known name.
func ParseModel(id uint16) (Model, bool) {
	m := Model(id)
	if _, ok := modelNames[m]; !ok {
		return ModelUnknown, false
	}
	return m, true
}

// ModelFromID resolves a raw model identifier, falling back to ModelUnknown.
func ModelFromID(id uint16) Model {
	m, _ := ParseModel(id)
	return m
}

// String returns the display name of the model.
func (m Model) String() string {
	if name, ok := modelNames[m]; ok {
		return name
	}
	if m == ModelUnknown {
		return "Unknown"
	}
	return fmt.Sprintf("Unknown(0x%04X)", uint16(m))
}

// Models returns all known models.
func Models() []Model {
	return []Model{ModelMCTRL300, ModelMCTRL600}
}
