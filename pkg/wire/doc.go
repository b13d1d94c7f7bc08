// Package wire defines the binary packet format spoken by NovaStar sender cards.
//
// Every request and response is a single fixed-layout packet. Multi-byte
// fields are little-endian except the leading sync word, which is big-endian.
//
// # Packet Layout
//
//	offset  size  field
//	0       2     direction (0x55AA, big-endian)
//	2       1     ack
//	3       1     serial
//	4       1     source address (0xFE for the host)
//	5       1     destination address
//	6       1     device type
//	7       1     port address
//	8       2     scanboard address
//	10      1     op code
//	11      1     reserved
//	12      4     feature address
//	16      2     data length
//	18      n     payload (written requests and all responses)
//	18+n    2     checksum
//
// # Checksum
//
// The checksum is a 16-bit wrapping byte sum seeded with 0x5555. It covers
// every byte from offset 2 up to the end of the payload actually written.
// A read request announces its payload length in the header but does not
// carry the payload bytes, so they are not part of its checksum.
//
// # Serial Numbers
//
// A Codec owns the request serial counter. Serials run from 0 to 254 and
// then restart at 0; 255 is never sent. The device echoes the value but it
// is not used to match responses.
package wire
