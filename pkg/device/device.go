package device

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/novastar-protocol/novastar-go/pkg/log"
	"github.com/novastar-protocol/novastar-go/pkg/transport"
	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// Device errors.
var (
	// ErrDead indicates the device link failed on a previous write.
	ErrDead = errors.New("device dead")

	// ErrShortPayload indicates a response carried fewer bytes than required.
	ErrShortPayload = errors.New("response payload too short")

	// ErrUnexpectedResponse indicates a response for a different feature.
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// ModelIDSize is the payload length of a model-id response.
const ModelIDSize = 2

// Device is an identified controller reachable over one transport.
type Device struct {
	id    string
	tr    transport.Transport
	codec *wire.Codec
	opts  options

	// mu serializes request/response exchanges on the link.
	mu    sync.Mutex
	model wire.Model
}

// Identify performs the model-id round trip over tr and returns a handle
// that owns tr. On failure tr is left open; the caller closes it.
func Identify(tr transport.Transport, codec *wire.Codec, opts ...Option) (*Device, error) {
	o := buildOptions(opts)
	if o.id == "" {
		o.id = uuid.NewString()
	}

	d := &Device{
		id:    o.id,
		tr:    tr,
		codec: codec,
		opts:  o,
		model: wire.ModelUnknown,
	}

	if fl, ok := tr.(transport.FrameLogger); ok && o.protocolLogger != nil {
		fl.SetLogger(o.protocolLogger, d.id)
	}

	d.mu.Lock()
	model, err := d.queryModel()
	d.mu.Unlock()
	if err != nil {
		d.emitError("identify", err)
		return nil, fmt.Errorf("identify %s: %w", tr.Address(), err)
	}
	d.model = model

	o.logger.Debug("device identified",
		"id", d.id,
		"transport", tr.Kind().String(),
		"address", tr.Address(),
		"model", model.String())
	d.emitState("", "ALIVE", "identified")

	return d, nil
}

// ID returns the connection ID used to correlate protocol log events.
func (d *Device) ID() string { return d.id }

// Kind returns the transport kind.
func (d *Device) Kind() transport.Kind { return d.tr.Kind() }

// Address returns the peer address or serial port name.
func (d *Device) Address() string { return d.tr.Address() }

// Transport returns the underlying link.
func (d *Device) Transport() transport.Transport { return d.tr }

// Model returns the classified controller model.
func (d *Device) Model() wire.Model {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.model
}

// Alive reports whether the device link is still usable.
func (d *Device) Alive() bool {
	return d.tr.Alive()
}

// Close closes the underlying transport.
func (d *Device) Close() error {
	return d.tr.Close()
}

// String returns a short human-readable description.
func (d *Device) String() string {
	return fmt.Sprintf("%s %s (%s)", d.Model(), d.Address(), d.Kind())
}

// Prune closes and removes dead devices, returning the live ones.
// The input slice is reused.
func Prune(devs []*Device) []*Device {
	live := devs[:0]
	for _, d := range devs {
		if d == nil {
			continue
		}
		if d.Alive() {
			live = append(live, d)
			continue
		}
		d.Close()
	}
	clear(devs[len(live):])
	return live
}

// queryModel sends the model-id read and classifies the reply.
// The caller holds d.mu.
func (d *Device) queryModel() (wire.Model, error) {
	req := wire.NewSenderPacket(wire.OpRead, wire.SenderAddr, wire.ControllerModelIdAddr, make([]byte, ModelIDSize))
	resp, err := d.exchange(req, wire.ResponseSize(ModelIDSize))
	if err != nil {
		return wire.ModelUnknown, err
	}
	if len(resp.Data) < ModelIDSize {
		return wire.ModelUnknown, fmt.Errorf("%w: %d < %d", ErrShortPayload, len(resp.Data), ModelIDSize)
	}
	return wire.ModelFromID(binary.LittleEndian.Uint16(resp.Data[:ModelIDSize])), nil
}

// exchange encodes req, writes and flushes it, then reads and decodes a
// response of respSize bytes. A respSize of 0 sends without waiting.
// The caller holds d.mu.
func (d *Device) exchange(req wire.Packet, respSize int) (*wire.Packet, error) {
	if !d.tr.Alive() {
		return nil, ErrDead
	}

	b := d.codec.Encode(req)
	req.Serial = b[3]
	d.emitPacket(&req, log.DirectionOut)

	if err := d.tr.Write(b); err != nil {
		return nil, d.writeFailed(err)
	}
	if err := d.tr.Flush(); err != nil {
		return nil, d.writeFailed(err)
	}

	if respSize == 0 {
		return nil, nil
	}

	buf := make([]byte, respSize)
	if err := d.tr.ReadFull(buf); err != nil {
		return nil, err
	}

	resp, err := wire.Decode(buf)
	if err != nil {
		return nil, err
	}
	d.emitPacket(resp, log.DirectionIn)

	if resp.Address != req.Address {
		return nil, fmt.Errorf("%w: %s for %s", ErrUnexpectedResponse, resp.Address, req.Address)
	}
	return resp, nil
}

func (d *Device) writeFailed(err error) error {
	d.opts.logger.Warn("device link failed",
		"id", d.id,
		"address", d.tr.Address(),
		"error", err)
	d.emitState("ALIVE", "DEAD", err.Error())
	return fmt.Errorf("%w: %w", ErrDead, err)
}

func (d *Device) emitPacket(p *wire.Packet, dir log.Direction) {
	if d.opts.protocolLogger == nil {
		return
	}
	log.Emit(d.opts.protocolLogger, d.event(log.Event{
		Direction: dir,
		Layer:     log.LayerWire,
		Category:  log.CategoryPacket,
		Packet:    log.NewPacketEvent(p, dir),
	}))
}

func (d *Device) emitState(oldState, newState, reason string) {
	if d.opts.protocolLogger == nil {
		return
	}
	log.Emit(d.opts.protocolLogger, d.event(log.Event{
		Category: log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityDevice,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	}))
}

func (d *Device) emitError(context string, err error) {
	if d.opts.protocolLogger == nil {
		return
	}
	log.Emit(d.opts.protocolLogger, d.event(log.Event{
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerWire,
			Message: err.Error(),
			Context: context,
		},
	}))
}

func (d *Device) event(ev log.Event) log.Event {
	ev.ConnectionID = d.id
	ev.Transport = d.tr.Kind().String()
	ev.RemoteAddr = d.tr.Address()
	if d.model != wire.ModelUnknown {
		ev.Model = d.model.String()
	}
	return ev
}

var _ fmt.Stringer = (*Device)(nil)
