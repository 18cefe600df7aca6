package hostwalk

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/net/proxy"
)

// Exchanger sends a single query attempt to one nameserver and returns its
// response. Implementations must enforce a per-attempt deadline; timeouts and
// connectivity failures surface as errors and are never retried against the
// same server by the engine.
type Exchanger interface {
	Exchange(ctx context.Context, m *dns.Msg, server netip.Addr) (*dns.Msg, error)
}

// UDPTransport is the default Exchanger: one plain UDP/IPv4 datagram
// exchange per attempt.
type UDPTransport struct {
	proxy.ContextDialer
	Timeout time.Duration // per-attempt limit, combined with the context deadline
	Port    uint16
}

func (t *UDPTransport) Exchange(ctx context.Context, m *dns.Msg, server netip.Addr) (resp *dns.Msg, err error) {
	addrPort := netip.AddrPortFrom(server, t.port())
	var rawConn net.Conn
	if rawConn, err = t.DialContext(ctx, "udp4", addrPort.String()); err == nil {
		defer rawConn.Close()
		dnsConn := &dns.Conn{Conn: rawConn, UDPSize: dns.MinMsgSize}
		if deadline := t.deadline(ctx); !deadline.IsZero() {
			_ = dnsConn.SetDeadline(deadline)
		}
		if err = dnsConn.WriteMsg(m); err == nil {
			resp, err = dnsConn.ReadMsg()
		}
	}
	return
}

func (t *UDPTransport) port() uint16 {
	if t.Port != 0 {
		return t.Port
	}
	return 53
}

func (t *UDPTransport) deadline(ctx context.Context) time.Time {
	var deadline time.Time
	if ctx != nil {
		if d, ok := ctx.Deadline(); ok {
			deadline = d
		}
	}
	if t.Timeout > 0 {
		limit := time.Now().Add(t.Timeout)
		if deadline.IsZero() || limit.Before(deadline) {
			deadline = limit
		}
	}
	return deadline
}
