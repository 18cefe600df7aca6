// Package hostwalk implements an iterative DNS resolver that walks the
// delegation hierarchy from the root hints, following referrals and alias
// chains, using github.com/miekg/dns for wire format and transport.
package hostwalk

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
)

//go:generate go run ./cmd/genhints roothints.gen.go

type Resolver struct {
	Transport   Exchanger    // used for single query attempts
	mu          sync.RWMutex // protects following
	rootServers []netip.Addr
}

// New returns a resolver seeded with the IANA IPv4 root servers.
func New() (r *Resolver) {
	return &Resolver{
		Transport: &UDPTransport{
			ContextDialer: &net.Dialer{},
			Timeout:       3 * time.Second,
			Port:          53,
		},
		rootServers: append([]netip.Addr(nil), Roots4...),
	}
}

// Lookup performs one iterative resolution for qname/qtype, starting from the
// closest cached delegation and falling back to the root hints. It never
// follows aliases; compose with ResolveChain for that. The returned Outcome
// tells a confirmed empty answer apart from transport exhaustion.
func (r *Resolver) Lookup(ctx context.Context, qname string, qtype uint16, logw io.Writer, cache Cacher) (msg *dns.Msg, outcome Outcome, err error) {
	qry := query{
		Resolver: r,
		ctx:      ctx,
		cache:    cache,
		writer:   logw,
		start:    time.Now(),
	}
	msg, outcome, err = qry.lookup(dns.Fqdn(strings.ToLower(qname)), qtype)
	return
}

func (r *Resolver) roots() (servers []netip.Addr) {
	r.mu.RLock()
	servers = append(servers, r.rootServers...)
	r.mu.RUnlock()
	return
}

// -------- Record helpers ---------

func hasRRType(rrs []dns.RR, t uint16) bool {
	for _, rr := range rrs {
		if rr.Header().Rrtype == t {
			return true
		}
	}
	return false
}

func extractDelegationNS(m *dns.Msg, zone string) []string {
	var out []string
	for _, rr := range m.Ns {
		if ns, ok := rr.(*dns.NS); ok {
			if strings.EqualFold(ns.Hdr.Name, zone) {
				out = append(out, strings.ToLower(ns.Ns))
			}
		}
	}
	return out
}

// delegationZone returns the owner name of the first NS record in an
// authority section, which names the zone being delegated.
func delegationZone(rrs []dns.RR) (string, bool) {
	for _, rr := range rrs {
		if ns, ok := rr.(*dns.NS); ok {
			return strings.ToLower(ns.Hdr.Name), true
		}
	}
	return "", false
}

func nsTargets(rrs []dns.RR) []string {
	var out []string
	for _, rr := range rrs {
		if ns, ok := rr.(*dns.NS); ok {
			out = append(out, strings.ToLower(ns.Ns))
		}
	}
	return out
}

func answerAddrs(rrs []dns.RR) []netip.Addr {
	var addrs []netip.Addr
	for _, rr := range rrs {
		if a, ok := rr.(*dns.A); ok {
			if addr := ipToAddr(a.A); addr.IsValid() {
				addrs = append(addrs, addr)
			}
		}
	}
	return addrs
}

func cnameTarget(rrs []dns.RR, owner string) (string, bool) {
	for _, rr := range rrs {
		if c, ok := rr.(*dns.CNAME); ok && strings.EqualFold(c.Hdr.Name, owner) {
			return dns.Fqdn(strings.ToLower(c.Target)), true
		}
	}
	return "", false
}

func dedupAddrs(addrs []netip.Addr) []netip.Addr {
	seen := map[netip.Addr]struct{}{}
	var out []netip.Addr
	for _, addr := range addrs {
		if _, ok := seen[addr]; !ok {
			seen[addr] = struct{}{}
			out = append(out, addr)
		}
	}
	return out
}

func ipToAddr(ip net.IP) (addr netip.Addr) {
	if ip != nil {
		if v4 := ip.To4(); v4 != nil {
			addr = netip.AddrFrom4([4]byte(v4))
		} else if v6 := ip.To16(); v6 != nil {
			addr = netip.AddrFrom16([16]byte(v6))
		}
	}
	return
}

// emptyResponseFor synthesizes a zero-answer reply for m, used as the
// negative-result placeholder.
func emptyResponseFor(m *dns.Msg) *dns.Msg {
	resp := new(dns.Msg)
	resp.SetReply(m)
	return resp
}

func formatCounts(msg *dns.Msg) string {
	return fmt.Sprintf("%d+%d+%d A/N/E", len(msg.Answer), len(msg.Ns), len(msg.Extra))
}

// -------- Cache helpers ---------

func cacheGet(qname string, qtype uint16, cache Cacher) (msg *dns.Msg) {
	if cache != nil {
		msg = cache.DnsGet(qname, qtype)
	}
	return
}

func cacheStore(msg *dns.Msg, cache Cacher) (cached bool) {
	if cache != nil {
		if msg != nil && !msg.Zero && len(msg.Question) == 1 {
			cache.DnsSet(msg)
			cached = true
		}
	}
	return
}
