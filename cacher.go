package hostwalk

import (
	"github.com/miekg/dns"
)

type Cacher interface {
	// DnsSet stores msg for the supplied question unless an entry for that
	// question already exists: the first writer wins and later writes are
	// discarded. Implementations keep a private copy with dns.Msg.Zero set
	// to true before it is returned by DnsGet.
	DnsSet(msg *dns.Msg)

	// DnsGet returns the cached dns.Msg pointer for the given qname and
	// qtype, or nil if no entry exists. The returned message keeps
	// dns.Msg.Zero set to true to signal it originated from cache, and
	// callers MUST treat it as immutable.
	DnsGet(qname string, qtype uint16) *dns.Msg
}
