// Package discovery finds NovaStar controllers on the local network and on
// serial ports.
//
// # Network Discovery
//
// The host broadcasts the 8-byte probe "rqProMi:" to UDP port 3800.
// Controllers answer with a short datagram (e.g. "rpProMi:App,0161"); the
// reply content is not interpreted, only its source address. For every
// distinct responder the host connects back over TCP to port 5200 and
// performs the model-id round trip (see package device).
//
// # Serial Discovery
//
// Every serial port on the system is opened at 1048576 baud and, failing
// identification there, at 115200 baud. The first baud rate that yields a
// valid model-id response wins and the port stays open inside the device
// handle.
//
// # Outcomes
//
// A candidate that fails at any step (connect, write, timeout, checksum,
// unknown field) is skipped and counted in Result.Skipped. Only failing to
// start a strategy (binding the UDP socket, sending the probe, listing
// serial ports) is returned as an error. Discovered devices are returned as
// values; the package keeps no registry of its own.
package discovery
