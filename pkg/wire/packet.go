package wire

// Protocol constants.
const (
	// DirectionMagic is the sync word that opens every packet.
	DirectionMagic uint16 = 0x55AA

	// HostAddr is the source address used by the controlling host.
	HostAddr uint8 = 0xFE

	// SenderAddr is the destination address of a directly attached sender card.
	SenderAddr uint8 = 0x00

	// BroadcastAddr is the destination address that reaches every card.
	BroadcastAddr uint8 = 0xFF

	// ScanboardBroadcast is the scanboard address that reaches every receiving card.
	ScanboardBroadcast uint16 = 0xFFFF

	// HeaderSize is the number of bytes before the payload.
	HeaderSize = 18

	// ChecksumSize is the size of the trailing checksum.
	ChecksumSize = 2

	// MinPacketSize is the size of a packet with an empty payload.
	MinPacketSize = HeaderSize + ChecksumSize

	// ChecksumSeed is the initial value of the running checksum.
	ChecksumSeed uint16 = 0x5555

	// MaxSerial is the highest serial number ever sent.
	MaxSerial uint8 = 254
)

// Packet is a single request or response.
type Packet struct {
	Direction     uint16
	Ack           uint8
	Serial        uint8
	SrcAddr       uint8
	DstAddr       uint8
	DeviceType    DeviceType
	PortAddr      uint8
	ScanboardAddr uint16
	OpCode        OpCode
	Reserved2     uint8
	Address       FeatureAddress

	// Data is the payload. Its length is always announced in the header,
	// but the bytes are only transmitted for OpWrite.
	Data []byte
}

// NewSenderPacket returns a packet addressed to a sender card.
func NewSenderPacket(op OpCode, dst uint8, addr FeatureAddress, data []byte) Packet {
	return Packet{
		Direction:     DirectionMagic,
		SrcAddr:       HostAddr,
		DstAddr:       dst,
		DeviceType:    DeviceTypeController,
		PortAddr:      0x00,
		ScanboardAddr: 0x0000,
		OpCode:        op,
		Address:       addr,
		Data:          data,
	}
}

// NewScanboardPacket returns a packet broadcast to every receiving card.
func NewScanboardPacket(op OpCode, addr FeatureAddress, data []byte) Packet {
	return Packet{
		Direction:     DirectionMagic,
		SrcAddr:       HostAddr,
		DstAddr:       BroadcastAddr,
		DeviceType:    DeviceTypeScanboard,
		PortAddr:      0xFF,
		ScanboardAddr: ScanboardBroadcast,
		OpCode:        op,
		Address:       addr,
		Data:          data,
	}
}

// ResponseSize returns the size of a response carrying payloadLen bytes.
func ResponseSize(payloadLen int) int {
	return MinPacketSize + payloadLen
}

// EncodedSize returns the number of bytes Marshal produces for p.
func (p *Packet) EncodedSize() int {
	if p.OpCode == OpWrite {
		return MinPacketSize + len(p.Data)
	}
	return MinPacketSize
}
