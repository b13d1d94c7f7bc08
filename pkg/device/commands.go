package device

import (
	"fmt"

	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// Command names reported to the CommandRecorder.
const (
	CommandRead          = "read"
	CommandWrite         = "write"
	CommandSetBrightness = "set_brightness"
	CommandBrightness    = "brightness"
	CommandQueryModel    = "query_model"
	CommandResetSession  = "reset_session"
)

// Read reads the value of feature from the sender card. The request is
// padded with zeros to the feature's payload length.
func (d *Device) Read(feature wire.FeatureAddress) ([]byte, error) {
	data, err := d.read(feature)
	d.observe(CommandRead, err)
	return data, err
}

// Write broadcasts data for feature to every receiving card. No response
// is awaited.
func (d *Device) Write(feature wire.FeatureAddress, data []byte) error {
	err := d.write(feature, data)
	d.observe(CommandWrite, err)
	return err
}

// SetBrightness sets the global brightness (0-255) on every receiving card.
func (d *Device) SetBrightness(value uint8) error {
	err := d.write(wire.GlobalBrightnessAddr, []byte{value})
	d.observe(CommandSetBrightness, err)
	return err
}

// Brightness reads the global brightness from the sender card.
func (d *Device) Brightness() (uint8, error) {
	data, err := d.read(wire.GlobalBrightnessAddr)
	if err == nil && len(data) < 1 {
		err = fmt.Errorf("%w: brightness", ErrShortPayload)
	}
	d.observe(CommandBrightness, err)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// QueryModel repeats the model-id round trip and refreshes the cached model.
func (d *Device) QueryModel() (wire.Model, error) {
	d.mu.Lock()
	model, err := d.queryModel()
	if err == nil {
		d.model = model
	}
	d.mu.Unlock()

	d.observe(CommandQueryModel, err)
	return model, err
}

// ResetSession broadcasts a session reset to the sender cards. The
// controller does not answer it.
func (d *Device) ResetSession() error {
	req := wire.NewSenderPacket(wire.OpRead, wire.BroadcastAddr, wire.ControllerModelIdAddr, []byte{0})

	d.mu.Lock()
	_, err := d.exchange(req, 0)
	d.mu.Unlock()

	d.observe(CommandResetSession, err)
	return err
}

func (d *Device) read(feature wire.FeatureAddress) ([]byte, error) {
	n := feature.PayloadLen()
	if n == 0 {
		return nil, fmt.Errorf("read %s: %w", feature, wire.ErrUnknownFeatureAddress)
	}

	req := wire.NewSenderPacket(wire.OpRead, wire.SenderAddr, feature, make([]byte, n))

	d.mu.Lock()
	resp, err := d.exchange(req, wire.ResponseSize(n))
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", feature, err)
	}
	return resp.Data, nil
}

func (d *Device) write(feature wire.FeatureAddress, data []byte) error {
	req := wire.NewScanboardPacket(wire.OpWrite, feature, data)

	d.mu.Lock()
	_, err := d.exchange(req, 0)
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("write %s: %w", feature, err)
	}
	return nil
}

func (d *Device) observe(command string, err error) {
	if d.opts.recorder != nil {
		d.opts.recorder.ObserveCommand(command, err)
	}
}
