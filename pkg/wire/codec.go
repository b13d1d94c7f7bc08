package wire

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// Checksum returns the running byte sum of b seeded with ChecksumSeed.
// The sum wraps at 16 bits.
func Checksum(b []byte) uint16 {
	sum := ChecksumSeed
	for _, c := range b {
		sum += uint16(c)
	}
	return sum
}

// Marshal encodes p exactly as given, including its serial number.
// The payload bytes are only written for OpWrite; the length field always
// carries len(p.Data).
func Marshal(p Packet) []byte {
	out := make([]byte, HeaderSize, p.EncodedSize())

	binary.BigEndian.PutUint16(out[0:2], p.Direction)
	out[2] = p.Ack
	out[3] = p.Serial
	out[4] = p.SrcAddr
	out[5] = p.DstAddr
	out[6] = uint8(p.DeviceType)
	out[7] = p.PortAddr
	binary.LittleEndian.PutUint16(out[8:10], p.ScanboardAddr)
	out[10] = uint8(p.OpCode)
	out[11] = p.Reserved2
	binary.LittleEndian.PutUint32(out[12:16], uint32(p.Address))
	binary.LittleEndian.PutUint16(out[16:18], uint16(len(p.Data)))

	if p.OpCode == OpWrite {
		out = append(out, p.Data...)
	}

	return binary.LittleEndian.AppendUint16(out, Checksum(out[2:]))
}

// Decode parses a packet from b and verifies its checksum.
//
// The payload length is taken from the header and the checksum is expected
// directly after the payload. Bytes after the checksum are ignored.
// Integrity is checked before any field is classified, so a corrupted
// packet always reports a *ChecksumMismatchError.
func Decode(b []byte) (*Packet, error) {
	if len(b) < MinPacketSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrPacketTooShort, len(b), MinPacketSize)
	}

	dataLen := int(binary.LittleEndian.Uint16(b[16:18]))
	end := HeaderSize + dataLen
	if len(b) < end+ChecksumSize {
		return nil, fmt.Errorf("%w: %d bytes for %d byte payload", ErrPacketTooShort, len(b), dataLen)
	}

	received := binary.LittleEndian.Uint16(b[end : end+ChecksumSize])
	computed := Checksum(b[2:end])
	if received != computed {
		return nil, &ChecksumMismatchError{Received: received, Computed: computed}
	}

	p := &Packet{
		Direction:     binary.BigEndian.Uint16(b[0:2]),
		Ack:           b[2],
		Serial:        b[3],
		SrcAddr:       b[4],
		DstAddr:       b[5],
		DeviceType:    DeviceType(b[6]),
		PortAddr:      b[7],
		ScanboardAddr: binary.LittleEndian.Uint16(b[8:10]),
		OpCode:        OpCode(b[10]),
		Reserved2:     b[11],
		Address:       FeatureAddress(binary.LittleEndian.Uint32(b[12:16])),
		Data:          append([]byte{}, b[HeaderSize:end]...),
	}

	if !p.DeviceType.IsValid() {
		return nil, &UnknownEnumValueError{Field: FieldDeviceType, Value: uint32(p.DeviceType)}
	}
	if !p.OpCode.IsValid() {
		return nil, &UnknownEnumValueError{Field: FieldOpCode, Value: uint32(p.OpCode)}
	}
	if !p.Address.IsValid() {
		return nil, &UnknownEnumValueError{Field: FieldAddress, Value: uint32(p.Address)}
	}

	return p, nil
}

// Codec encodes outgoing packets and owns the request serial counter.
// A Codec is safe for concurrent use.
type Codec struct {
	mu     sync.Mutex
	serial uint8
}

// NewCodec returns a codec whose first packet carries serial 0.
func NewCodec() *Codec {
	return &Codec{}
}

// Serial returns the serial number the next encoded packet will carry.
func (c *Codec) Serial() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serial
}

// Encode stamps p with the next serial number, marshals it and advances
// the counter. After MaxSerial the counter restarts at 0.
func (c *Codec) Encode(p Packet) []byte {
	c.mu.Lock()
	p.Serial = c.serial
	c.serial++
	if c.serial > MaxSerial {
		c.serial = 0
	}
	c.mu.Unlock()

	return Marshal(p)
}

// BuildSender encodes a packet addressed to a sender card.
func (c *Codec) BuildSender(op OpCode, dst uint8, addr FeatureAddress, data []byte) []byte {
	return c.Encode(NewSenderPacket(op, dst, addr, data))
}

// BuildScanboard encodes a packet broadcast to every receiving card.
func (c *Codec) BuildScanboard(op OpCode, addr FeatureAddress, data []byte) []byte {
	return c.Encode(NewScanboardPacket(op, addr, data))
}
