package main

import (
	"context"
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novastar-protocol/novastar-go/pkg/device"
	"github.com/novastar-protocol/novastar-go/pkg/discovery"
	"github.com/novastar-protocol/novastar-go/pkg/transport"
	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// simController is an in-memory controller answering model and
// brightness reads.
type simController struct {
	mu         sync.Mutex
	kind       transport.Kind
	addr       string
	model      uint16
	brightness uint8
	resets     int
	pending    []byte
	failWrites bool
	dead       bool
	closed     bool
}

var _ transport.Transport = (*simController)(nil)

func newSim(kind transport.Kind, addr string, model uint16) *simController {
	return &simController{kind: kind, addr: addr, model: model, brightness: 255}
}

func (s *simController) Kind() transport.Kind { return s.kind }
func (s *simController) Address() string      { return s.addr }

func (s *simController) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.dead
}

func (s *simController) Write(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		s.dead = true
		return &transport.OpError{Op: "write", Kind: s.kind, Addr: s.addr, Err: transport.ErrDead}
	}

	op := wire.OpCode(b[10])
	dst := b[5]
	addr := wire.FeatureAddress(binary.LittleEndian.Uint32(b[12:16]))

	switch {
	case op == wire.OpWrite && addr == wire.GlobalBrightnessAddr:
		s.brightness = b[wire.HeaderSize]
	case op == wire.OpRead && dst == wire.BroadcastAddr:
		s.resets++
	case op == wire.OpRead && addr == wire.ControllerModelIdAddr:
		data := binary.LittleEndian.AppendUint16(nil, s.model)
		s.pending = append(s.pending, reply(addr, data)...)
	case op == wire.OpRead && addr == wire.GlobalBrightnessAddr:
		s.pending = append(s.pending, reply(addr, []byte{s.brightness})...)
	}
	return nil
}

func (s *simController) Flush() error { return nil }

func (s *simController) ReadFull(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) < len(buf) {
		return &transport.OpError{Op: "read", Kind: s.kind, Addr: s.addr, Err: transport.ErrTimeout}
	}
	copy(buf, s.pending)
	s.pending = s.pending[len(buf):]
	return nil
}

func (s *simController) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *simController) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// reply encodes a read response carrying data.
func reply(addr wire.FeatureAddress, data []byte) []byte {
	p := wire.NewSenderPacket(wire.OpWrite, wire.SenderAddr, addr, data)
	b := wire.Marshal(p)
	b[10] = uint8(wire.OpRead)
	end := len(b) - wire.ChecksumSize
	binary.LittleEndian.PutUint16(b[end:], wire.Checksum(b[2:end]))
	return b
}

func identify(t *testing.T, sim *simController) *device.Device {
	t.Helper()
	d, err := device.Identify(sim, wire.NewCodec())
	require.NoError(t, err)
	return d
}

// stubDiscovery returns canned results and records the configs it saw.
type stubDiscovery struct {
	mu      sync.Mutex
	results []*discovery.Result
	err     error
	calls   int
	netCfg  *discovery.NetworkConfig
	serCfg  *discovery.SerialConfig
}

func (s *stubDiscovery) discover(_ context.Context, _ *wire.Codec, netCfg *discovery.NetworkConfig, serialCfg *discovery.SerialConfig) (*discovery.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.netCfg = netCfg
	s.serCfg = serialCfg
	res := &discovery.Result{}
	if s.calls < len(s.results) {
		res = s.results[s.calls]
	}
	s.calls++
	return res, s.err
}

func newTestController(t *testing.T, stub *stubDiscovery) *Controller {
	t.Helper()
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	ctl := NewController(cfg, nil, nil, nil)
	ctl.discover = stub.discover
	t.Cleanup(ctl.Close)
	return ctl
}
