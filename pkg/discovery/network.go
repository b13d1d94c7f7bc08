package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/novastar-protocol/novastar-go/pkg/device"
	"github.com/novastar-protocol/novastar-go/pkg/log"
	"github.com/novastar-protocol/novastar-go/pkg/transport"
	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// NetworkConfig configures network discovery. Zero values select the
// defaults.
type NetworkConfig struct {
	// ListenAddr is the local UDP address to bind (default: ":3800").
	ListenAddr string

	// BroadcastAddr is the probe destination IP (default: 255.255.255.255).
	BroadcastAddr string

	// DiscoveryPort is the probe destination port (default: 3800).
	DiscoveryPort int

	// ControllerPort is the TCP port to connect back to (default: 5200).
	ControllerPort int

	// ReadTimeout is how long to wait for probe replies (default: 1s).
	ReadTimeout time.Duration

	// Transport configures the TCP links to responders.
	Transport transport.Config

	// Logger receives operational logs (default: slog.Default()).
	Logger *slog.Logger

	// ProtocolLogger receives protocol capture events (optional).
	ProtocolLogger log.Logger

	// Metrics observes discovery outcomes (optional).
	Metrics Recorder
}

func (c NetworkConfig) withDefaults() NetworkConfig {
	if c.DiscoveryPort == 0 {
		c.DiscoveryPort = DiscoveryPort
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":" + strconv.Itoa(c.DiscoveryPort)
	}
	if c.BroadcastAddr == "" {
		c.BroadcastAddr = DefaultBroadcastAddr
	}
	if c.ControllerPort == 0 {
		c.ControllerPort = ControllerPort
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// DiscoverNetwork broadcasts a probe, collects the responders and
// identifies each of them over TCP.
func DiscoverNetwork(ctx context.Context, codec *wire.Codec, cfg NetworkConfig) (*Result, error) {
	cfg = cfg.withDefaults()

	ip := net.ParseIP(cfg.BroadcastAddr)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddr, cfg.BroadcastAddr)
	}
	dst := &net.UDPAddr{IP: ip, Port: cfg.DiscoveryPort}

	lc := net.ListenConfig{Control: enableBroadcast}
	pc, err := lc.ListenPacket(ctx, "udp4", cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBind, cfg.ListenAddr, err)
	}
	defer pc.Close()

	if _, err := pc.WriteTo([]byte(ProbeMagic), dst); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProbe, dst, err)
	}
	cfg.Logger.Debug("discovery probe sent", "to", dst.String(), "listen", pc.LocalAddr().String())

	peers := collectReplies(ctx, pc, cfg.ReadTimeout, cfg.Logger)

	result := &Result{}
	run := &candidateRun{
		kind:           transport.KindNetwork,
		logger:         cfg.Logger,
		protocolLogger: cfg.ProtocolLogger,
		metrics:        cfg.Metrics,
		result:         result,
	}
	opts := deviceOptions(cfg.Logger, cfg.ProtocolLogger, cfg.Metrics)

	for _, peer := range peers {
		if ctx.Err() != nil {
			break
		}

		addr := net.JoinHostPort(peer.String(), strconv.Itoa(cfg.ControllerPort))
		run.probed()

		d, err := identifyNetwork(ctx, codec, addr, cfg.Transport, opts)
		if err != nil {
			run.skipped(addr, 0, err)
			continue
		}
		run.found(d, 0)
	}

	return result, nil
}

// collectReplies reads probe replies until the reply window closes or ctx
// is done. It returns the distinct responder IPs in arrival order.
func collectReplies(ctx context.Context, pc net.PacketConn, window time.Duration, logger *slog.Logger) []net.IP {
	deadline := time.Now().Add(window)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := pc.SetReadDeadline(deadline); err != nil {
		logger.Warn("discovery: set read deadline", "error", err)
		return nil
	}

	stop := context.AfterFunc(ctx, func() {
		pc.SetReadDeadline(time.Now())
	})
	defer stop()

	seen := make(map[string]struct{})
	var peers []net.IP
	buf := make([]byte, maxDatagramSize)

	for {
		n, from, err := pc.ReadFrom(buf)
		if err != nil {
			// Deadline reached or socket closed: the window is over.
			return peers
		}

		// Our own broadcast loops back on most stacks.
		if string(buf[:n]) == ProbeMagic {
			continue
		}

		udp, ok := from.(*net.UDPAddr)
		if !ok {
			continue
		}
		key := udp.IP.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		peers = append(peers, udp.IP)

		logger.Debug("discovery reply", "from", udp.String(), "size", n)
	}
}

// identifyNetwork connects to addr and runs the model-id round trip. The
// connection is closed if identification fails.
func identifyNetwork(ctx context.Context, codec *wire.Codec, addr string, cfg transport.Config, opts []device.Option) (*device.Device, error) {
	tr, err := transport.Dial(ctx, addr, cfg)
	if err != nil {
		return nil, err
	}

	d, err := device.Identify(tr, codec, opts...)
	if err != nil {
		tr.Close()
		return nil, err
	}
	return d, nil
}
