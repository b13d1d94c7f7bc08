//go:build !unix && !windows

package discovery

import "syscall"

func enableBroadcast(network, address string, c syscall.RawConn) error {
	return nil
}
