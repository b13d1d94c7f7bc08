package discovery

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/novastar-protocol/novastar-go/pkg/transport"
	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// modelResponse encodes a controller's reply to the model-id read.
func modelResponse(id uint16) []byte {
	data := binary.LittleEndian.AppendUint16(nil, id)
	b := wire.Marshal(wire.NewSenderPacket(wire.OpWrite, wire.SenderAddr, wire.ControllerModelIdAddr, data))
	b[10] = uint8(wire.OpRead)
	end := len(b) - wire.ChecksumSize
	binary.LittleEndian.PutUint16(b[end:], wire.Checksum(b[2:end]))
	return b
}

// fakeSerialPort answers the model-id query once a request was flushed.
type fakeSerialPort struct {
	mu      sync.Mutex
	reply   []byte
	rx      bytes.Buffer
	timeout time.Duration
	closed  bool
}

func (p *fakeSerialPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	if p.rx.Len() == 0 {
		timeout := p.timeout
		p.mu.Unlock()
		time.Sleep(timeout)
		return 0, nil
	}
	defer p.mu.Unlock()
	return p.rx.Read(b)
}

func (p *fakeSerialPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reply != nil {
		p.rx.Write(p.reply)
	}
	return len(b), nil
}

func (p *fakeSerialPort) Drain() error { return nil }

func (p *fakeSerialPort) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = t
	return nil
}

func (p *fakeSerialPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// fakeSerialBus maps port names to the baud rate at which a controller
// answers and the model it reports.
type fakeSerialBus struct {
	mu     sync.Mutex
	baud   map[string]int
	model  map[string]uint16
	opened []string
	ports  []*fakeSerialPort
}

func newFakeSerialBus() *fakeSerialBus {
	return &fakeSerialBus{baud: map[string]int{}, model: map[string]uint16{}}
}

func (b *fakeSerialBus) attach(name string, baud int, model uint16) {
	b.baud[name] = baud
	b.model[name] = model
}

func (b *fakeSerialBus) open(name string, mode *serial.Mode) (transport.SerialPort, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened = append(b.opened, name+"@"+strconv.Itoa(mode.BaudRate))

	p := &fakeSerialPort{}
	if baud, ok := b.baud[name]; ok && baud == mode.BaudRate {
		p.reply = modelResponse(b.model[name])
	}
	b.ports = append(b.ports, p)
	return p, nil
}

func (b *fakeSerialBus) openedPorts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.opened...)
}

// recorder counts discovery outcomes.
type recorder struct {
	mu      sync.Mutex
	probed  map[transport.Kind]int
	skipped map[transport.Kind]int
	found   map[wire.Model]int
}

func newRecorder() *recorder {
	return &recorder{
		probed:  map[transport.Kind]int{},
		skipped: map[transport.Kind]int{},
		found:   map[wire.Model]int{},
	}
}

func (r *recorder) CandidateProbed(kind transport.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probed[kind]++
}

func (r *recorder) CandidateSkipped(kind transport.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped[kind]++
}

func (r *recorder) DeviceFound(kind transport.Kind, model wire.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.found[model]++
}
