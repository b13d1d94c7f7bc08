package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/novastar-protocol/novastar-go/pkg/log"
	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

var baseTime = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

const (
	connA = "a1b2c3d4-0000-4000-8000-000000000001"
	connB = "b1b2c3d4-0000-4000-8000-000000000002"
)

// writeLog writes events to a fresh capture file and returns its path.
func writeLog(t *testing.T, events ...log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture"+log.FileExtension)
	l, err := log.NewFileLogger(path)
	require.NoError(t, err)
	for _, ev := range events {
		l.Log(ev)
	}
	require.NoError(t, l.Close())
	require.Zero(t, l.Dropped())
	return path
}

func packetEvent(at time.Duration, conn string, dir log.Direction, p wire.Packet) log.Event {
	return log.Event{
		Timestamp:    baseTime.Add(at),
		ConnectionID: conn,
		Direction:    dir,
		Layer:        log.LayerWire,
		Category:     log.CategoryPacket,
		Transport:    "network",
		RemoteAddr:   "192.168.0.10:5200",
		Packet:       log.NewPacketEvent(&p, dir),
	}
}

// sampleLog is a discovery of one network controller followed by a
// brightness write, plus one skipped serial port.
func sampleLog(t *testing.T) string {
	t.Helper()

	query := wire.NewSenderPacket(wire.OpRead, wire.SenderAddr, wire.ControllerModelIdAddr, []byte{0, 0})
	reply := wire.NewSenderPacket(wire.OpRead, wire.SenderAddr, wire.ControllerModelIdAddr, []byte{0x01, 0x11})
	reply.Serial = 0
	write := wire.NewScanboardPacket(wire.OpWrite, wire.GlobalBrightnessAddr, []byte{0x80})
	write.Serial = 1

	return writeLog(t,
		packetEvent(0, connA, log.DirectionOut, query),
		log.Event{
			Timestamp:    baseTime.Add(10 * time.Millisecond),
			ConnectionID: connA,
			Direction:    log.DirectionIn,
			Layer:        log.LayerTransport,
			Category:     log.CategoryPacket,
			Transport:    "network",
			RemoteAddr:   "192.168.0.10:5200",
			Frame:        &log.FrameEvent{Size: 22, Data: wire.Marshal(reply)},
		},
		packetEvent(11*time.Millisecond, connA, log.DirectionIn, reply),
		log.Event{
			Timestamp:    baseTime.Add(12 * time.Millisecond),
			ConnectionID: connA,
			Layer:        log.LayerWire,
			Category:     log.CategoryState,
			Transport:    "network",
			RemoteAddr:   "192.168.0.10:5200",
			Model:        "MCTRL600/660",
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityDevice,
				NewState: "ALIVE",
				Reason:   "identified",
			},
		},
		log.Event{
			Timestamp: baseTime.Add(20 * time.Millisecond),
			Layer:     log.LayerDiscovery,
			Category:  log.CategoryDiscovery,
			Transport: "network",
			Discovery: &log.DiscoveryEvent{Candidate: "192.168.0.10", Outcome: log.OutcomeFound},
		},
		log.Event{
			Timestamp: baseTime.Add(1500 * time.Millisecond),
			Layer:     log.LayerDiscovery,
			Category:  log.CategoryDiscovery,
			Transport: "serial",
			Discovery: &log.DiscoveryEvent{
				Candidate: "/dev/ttyUSB0",
				Outcome:   log.OutcomeSkipped,
				BaudRate:  115200,
				Reason:    "read timeout",
			},
		},
		packetEvent(2*time.Second, connA, log.DirectionOut, write),
		log.Event{
			Timestamp:    baseTime.Add(3 * time.Second),
			ConnectionID: connB,
			Layer:        log.LayerTransport,
			Category:     log.CategoryError,
			Transport:    "serial",
			RemoteAddr:   "/dev/ttyUSB1",
			Error: &log.ErrorEventData{
				Layer:   log.LayerTransport,
				Message: "write /dev/ttyUSB1: input/output error",
				Context: "flush",
			},
		},
	)
}
