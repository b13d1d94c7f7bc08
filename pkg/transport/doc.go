// Package transport provides the byte links NovaStar controllers are
// reached over.
//
// Two implementations share the Transport interface:
//   - NetworkTransport: a TCP connection to the controller's port 5200
//   - SerialTransport: a serial line (8N1) opened through go.bug.st/serial
//
// Both buffer writes until Flush and bound every ReadFull by a read
// timeout (1 second by default), so a silent peer never blocks a caller
// indefinitely.
//
// # Failure Model
//
// A failed Write or Flush is terminal: the transport is marked dead and
// every later call fails with ErrDead. There is no reconnection; callers
// discard the handle and rediscover. Read failures, including timeouts,
// are returned to the caller and leave the transport usable.
//
// All I/O failures are reported as *OpError, which records the operation,
// the link kind and the peer address.
package transport
