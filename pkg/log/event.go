package log

import (
	"time"

	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the link (UUID of the device handle).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates data flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Transport is the link kind ("network" or "serial").
	Transport string `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the peer address (IP:port or serial port name).
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Model is the classified controller model, once known.
	Model string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // Transport layer
	Packet      *PacketEvent      `cbor:"11,keyasint,omitempty"` // Wire layer (decoded)
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Link state
	Discovery   *DiscoveryEvent   `cbor:"13,keyasint,omitempty"` // Discovery outcome
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data received from a device.
	DirectionIn Direction = 0
	// DirectionOut indicates data sent to a device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the link layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the packet layer (decoded fields).
	LayerWire Layer = 1
	// LayerDiscovery is the discovery layer.
	LayerDiscovery Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerDiscovery:
		return "DISCOVERY"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryPacket indicates protocol traffic (frames and packets).
	CategoryPacket Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryDiscovery indicates a discovery outcome.
	CategoryDiscovery Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryPacket:
		return "PACKET"
	case CategoryState:
		return "STATE"
	case CategoryDiscovery:
		return "DISCOVERY"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw bytes at the transport layer.
type FrameEvent struct {
	// Size is the number of bytes transferred.
	Size int `cbor:"1,keyasint"`

	// Data is the raw bytes (may be truncated for large transfers).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// PacketEvent captures a decoded packet at the wire layer.
type PacketEvent struct {
	Serial        uint8               `cbor:"1,keyasint"`
	OpCode        wire.OpCode         `cbor:"2,keyasint"`
	DeviceType    wire.DeviceType     `cbor:"3,keyasint"`
	DstAddr       uint8               `cbor:"4,keyasint"`
	ScanboardAddr uint16              `cbor:"5,keyasint"`
	Address       wire.FeatureAddress `cbor:"6,keyasint"`
	DataLen       int                 `cbor:"7,keyasint"`

	// Payload is the payload as carried on the wire (empty for read requests).
	Payload []byte `cbor:"8,keyasint,omitempty"`
}

// NewPacketEvent summarizes p. The payload is only kept when it was
// actually transmitted, i.e. for writes and for responses.
func NewPacketEvent(p *wire.Packet, direction Direction) *PacketEvent {
	ev := &PacketEvent{
		Serial:        p.Serial,
		OpCode:        p.OpCode,
		DeviceType:    p.DeviceType,
		DstAddr:       p.DstAddr,
		ScanboardAddr: p.ScanboardAddr,
		Address:       p.Address,
		DataLen:       len(p.Data),
	}
	if direction == DirectionIn || p.OpCode == wire.OpWrite {
		ev.Payload = append([]byte{}, p.Data...)
	}
	return ev
}

// StateChangeEvent captures link lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a link state change.
	StateEntityConnection StateEntity = 0
	// StateEntityDevice indicates a device handle state change.
	StateEntityDevice StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// DiscoveryEvent captures the outcome of probing one candidate.
type DiscoveryEvent struct {
	// Candidate is the peer address or serial port that was probed.
	Candidate string `cbor:"1,keyasint"`

	// Outcome is the result of the probe.
	Outcome Outcome `cbor:"2,keyasint"`

	// BaudRate is set for serial candidates.
	BaudRate int `cbor:"3,keyasint,omitempty"`

	// Reason explains a skipped candidate.
	Reason string `cbor:"4,keyasint,omitempty"`
}

// Outcome is the result of probing a discovery candidate.
type Outcome uint8

const (
	// OutcomeFound indicates the candidate identified as a controller.
	OutcomeFound Outcome = 0
	// OutcomeSkipped indicates the candidate was discarded.
	OutcomeSkipped Outcome = 1
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "FOUND"
	case OutcomeSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
