package transport

import (
	"sync"

	"github.com/novastar-protocol/novastar-go/pkg/log"
)

// MaxLogFrameDataSize is the maximum frame data size included in log events.
// Larger frames are truncated in the event.
const MaxLogFrameDataSize = 4096

// frameCapture emits transport-layer frame events for one link.
type frameCapture struct {
	mu     sync.RWMutex
	logger log.Logger
	connID string

	kind Kind
	addr string
}

func (c *frameCapture) set(logger log.Logger, connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
	c.connID = connID
}

func (c *frameCapture) emit(data []byte, direction log.Direction) {
	c.mu.RLock()
	logger, connID := c.logger, c.connID
	c.mu.RUnlock()

	if logger == nil {
		return
	}
	log.Emit(logger, makeFrameEvent(data, direction, connID, c.kind, c.addr))
}

// makeFrameEvent creates a log event for a frame. The data is copied so
// callers may reuse their buffers.
func makeFrameEvent(data []byte, direction log.Direction, connID string, kind Kind, addr string) log.Event {
	frameData := data
	truncated := false

	if len(data) > MaxLogFrameDataSize {
		frameData = data[:MaxLogFrameDataSize]
		truncated = true
	}

	return log.Event{
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerTransport,
		Category:     log.CategoryPacket,
		Transport:    kind.String(),
		RemoteAddr:   addr,
		Frame: &log.FrameEvent{
			Size:      len(data),
			Data:      append([]byte{}, frameData...),
			Truncated: truncated,
		},
	}
}
