package device

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/novastar-protocol/novastar-go/pkg/log"
	"github.com/novastar-protocol/novastar-go/pkg/transport"
	"github.com/novastar-protocol/novastar-go/pkg/transport/mocks"
	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// fakeTransport replays queued responses and records flushed writes.
type fakeTransport struct {
	mu        sync.Mutex
	pending   bytes.Buffer
	flushed   [][]byte
	responses [][]byte
	flushErr  error
	dead      bool
	closed    bool
}

func (f *fakeTransport) Kind() transport.Kind { return transport.KindSerial }
func (f *fakeTransport) Address() string      { return "/dev/ttyFAKE0" }

func (f *fakeTransport) ReadFull(buf []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 || len(f.responses[0]) < len(buf) {
		return &transport.OpError{Op: "read", Kind: transport.KindSerial, Addr: "/dev/ttyFAKE0", Err: transport.ErrTimeout}
	}
	copy(buf, f.responses[0])
	f.responses = f.responses[1:]
	return nil
}

func (f *fakeTransport) Write(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dead {
		return transport.ErrDead
	}
	f.pending.Write(data)
	return nil
}

func (f *fakeTransport) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dead {
		return transport.ErrDead
	}
	if f.flushErr != nil {
		f.dead = true
		return f.flushErr
	}
	f.flushed = append(f.flushed, append([]byte{}, f.pending.Bytes()...))
	f.pending.Reset()
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) Alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.dead && !f.closed
}

func (f *fakeTransport) lastFlushed() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.flushed) == 0 {
		return nil
	}
	return f.flushed[len(f.flushed)-1]
}

func (f *fakeTransport) queue(b []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, b)
}

// response encodes a device reply carrying data for addr.
func response(addr wire.FeatureAddress, data []byte) []byte {
	b := wire.Marshal(wire.NewSenderPacket(wire.OpWrite, wire.SenderAddr, addr, data))
	b[10] = uint8(wire.OpRead)
	end := len(b) - wire.ChecksumSize
	binary.LittleEndian.PutUint16(b[end:], wire.Checksum(b[2:end]))
	return b
}

func modelResponse(id uint16) []byte {
	return response(wire.ControllerModelIdAddr, binary.LittleEndian.AppendUint16(nil, id))
}

func identified(t *testing.T, id uint16, opts ...Option) (*Device, *fakeTransport) {
	t.Helper()
	tr := &fakeTransport{}
	tr.queue(modelResponse(id))
	d, err := Identify(tr, wire.NewCodec(), opts...)
	require.NoError(t, err)
	return d, tr
}

func TestIdentifyKnownModels(t *testing.T) {
	tests := []struct {
		id   uint16
		want wire.Model
		name string
	}{
		{0x0001, wire.ModelMCTRL300, "MCTRL300"},
		{0x1101, wire.ModelMCTRL600, "MCTRL600/660"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, tr := identified(t, tt.id)

			assert.Equal(t, tt.want, d.Model())
			assert.Equal(t, tt.name, d.Model().String())
			assert.Equal(t, transport.KindSerial, d.Kind())
			assert.Equal(t, "/dev/ttyFAKE0", d.Address())
			assert.True(t, d.Alive())

			_, err := uuid.Parse(d.ID())
			assert.NoError(t, err, "connection id is a UUID")

			want := []byte{
				0x55, 0xAA, 0x00, 0x00, 0xFE, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x02, 0x00,
				0x57, 0x56,
			}
			assert.Equal(t, want, tr.lastFlushed())
		})
	}
}

func TestIdentifyUnknownModel(t *testing.T) {
	d, _ := identified(t, 0xBEEF)

	assert.Equal(t, wire.ModelUnknown, d.Model())
	assert.Equal(t, "Unknown", d.Model().String())
	assert.True(t, d.Alive())
}

func TestIdentifyFailures(t *testing.T) {
	corrupted := modelResponse(0x0001)
	corrupted[21] ^= 0xFF

	badOp := response(wire.ControllerModelIdAddr, []byte{1, 0})
	badOp[10] = 0x07
	binary.LittleEndian.PutUint16(badOp[20:], wire.Checksum(badOp[2:20]))

	tests := []struct {
		name     string
		reply    []byte
		sentinel error
	}{
		{name: "no reply", reply: nil, sentinel: transport.ErrTimeout},
		{name: "checksum", reply: corrupted, sentinel: wire.ErrChecksumMismatch},
		{name: "unknown op code", reply: badOp, sentinel: wire.ErrUnknownEnumValue},
		{name: "other feature", reply: response(wire.GlobalBrightnessAddr, []byte{1, 2}), sentinel: ErrUnexpectedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTransport{}
			if tt.reply != nil {
				tr.queue(tt.reply)
			}

			d, err := Identify(tr, wire.NewCodec())
			assert.Nil(t, d)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.False(t, tr.closed, "caller owns the transport on failure")
		})
	}
}

func TestIdentifyWriteFailure(t *testing.T) {
	tr := &fakeTransport{flushErr: errors.New("broken pipe")}

	_, err := Identify(tr, wire.NewCodec())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDead)
	assert.False(t, tr.Alive())
}

func TestIdentifyWithMockTransport(t *testing.T) {
	m := mocks.NewMockTransport(t)
	reply := modelResponse(0x1101)

	m.EXPECT().Kind().Return(transport.KindNetwork).Maybe()
	m.EXPECT().Address().Return("192.168.1.20:5200").Maybe()
	m.EXPECT().Alive().Return(true)
	m.EXPECT().Write(mock.MatchedBy(func(b []byte) bool {
		return len(b) == 20 && b[12] == 0x02
	})).Return(nil).Once()
	m.EXPECT().Flush().Return(nil).Once()
	m.EXPECT().ReadFull(mock.Anything).RunAndReturn(func(buf []byte) error {
		copy(buf, reply)
		return nil
	}).Once()

	d, err := Identify(m, wire.NewCodec(), WithID("fixed-id"))
	require.NoError(t, err)
	assert.Equal(t, wire.ModelMCTRL600, d.Model())
	assert.Equal(t, "fixed-id", d.ID())
	assert.Equal(t, "MCTRL600/660 192.168.1.20:5200 (network)", d.String())
}

func TestPrune(t *testing.T) {
	live, _ := identified(t, 0x0001)
	dead, deadTr := identified(t, 0x0001)
	deadTr.dead = true

	devs := Prune([]*Device{live, nil, dead})

	require.Len(t, devs, 1)
	assert.Same(t, live, devs[0])
	assert.True(t, deadTr.closed, "pruned devices are closed")
}

func TestIdentifyEmitsProtocolEvents(t *testing.T) {
	rec := &recordingLogger{}
	d, _ := identified(t, 0x0001, WithProtocolLogger(rec))

	events := rec.snapshot()
	require.Len(t, events, 3)

	out := events[0]
	assert.Equal(t, log.DirectionOut, out.Direction)
	assert.Equal(t, log.LayerWire, out.Layer)
	require.NotNil(t, out.Packet)
	assert.Equal(t, wire.ControllerModelIdAddr, out.Packet.Address)
	assert.Equal(t, 2, out.Packet.DataLen)
	assert.Empty(t, out.Packet.Payload)

	in := events[1]
	assert.Equal(t, log.DirectionIn, in.Direction)
	assert.Equal(t, []byte{0x01, 0x00}, in.Packet.Payload)

	state := events[2]
	require.NotNil(t, state.StateChange)
	assert.Equal(t, "ALIVE", state.StateChange.NewState)
	assert.Equal(t, "MCTRL300", state.Model)

	for _, ev := range events {
		assert.Equal(t, d.ID(), ev.ConnectionID)
		assert.Equal(t, "serial", ev.Transport)
	}
}

type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingLogger) Log(event log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingLogger) snapshot() []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]log.Event{}, r.events...)
}
