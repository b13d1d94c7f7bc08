package wire

import (
	"errors"
	"fmt"
)

// Decode errors.
var (
	// ErrPacketTooShort indicates the buffer ends before the checksum.
	ErrPacketTooShort = errors.New("packet too short")

	// ErrChecksumMismatch indicates the received checksum does not match the content.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrUnknownEnumValue indicates a field holds a value with no known meaning.
	ErrUnknownEnumValue = errors.New("unknown enum value")

	// ErrUnknownDeviceType indicates an unrecognized device type byte.
	ErrUnknownDeviceType = errors.New("unknown device type")

	// ErrUnknownOpCode indicates an unrecognized op code byte.
	ErrUnknownOpCode = errors.New("unknown op code")

	// ErrUnknownFeatureAddress indicates an unrecognized feature address.
	ErrUnknownFeatureAddress = errors.New("unknown feature address")
)

// ChecksumMismatchError reports both checksum values of a corrupted packet.
type ChecksumMismatchError struct {
	Received uint16
	Computed uint16
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: received 0x%04X, computed 0x%04X", e.Received, e.Computed)
}

// Is reports whether target is ErrChecksumMismatch.
func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrChecksumMismatch
}

// Field names a packet field that carries an enumerated value.
type Field uint8

const (
	FieldDeviceType Field = iota
	FieldOpCode
	FieldAddress
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldDeviceType:
		return "device_type"
	case FieldOpCode:
		return "op_code"
	case FieldAddress:
		return "address"
	default:
		return "unknown"
	}
}

// UnknownEnumValueError reports the field and raw value that failed to resolve.
type UnknownEnumValueError struct {
	Field Field
	Value uint32
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("unknown %s value 0x%X", e.Field, e.Value)
}

// Is matches ErrUnknownEnumValue and the sentinel of the offending field.
func (e *UnknownEnumValueError) Is(target error) bool {
	switch target {
	case ErrUnknownEnumValue:
		return true
	case ErrUnknownDeviceType:
		return e.Field == FieldDeviceType
	case ErrUnknownOpCode:
		return e.Field == FieldOpCode
	case ErrUnknownFeatureAddress:
		return e.Field == FieldAddress
	}
	return false
}
