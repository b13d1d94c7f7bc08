//go:build windows

package discovery

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// enableBroadcast sets SO_BROADCAST so the socket may send to broadcast
// addresses.
func enableBroadcast(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
