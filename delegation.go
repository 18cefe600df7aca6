package hostwalk

import (
	"net/netip"
	"strings"

	"github.com/miekg/dns"
)

// closestDelegation walks the ancestor chain of qname from most specific to
// least specific, ending at the root zone, looking for a cached NS set whose
// nameserver addresses are also cached. The first such ancestor wins; with
// nothing usable cached the root hints are returned, so the result is never
// empty.
func (q *query) closestDelegation(qname string) []netip.Addr {
	labels := dns.SplitDomainName(qname)
	for i := 0; i <= len(labels); i++ {
		zone := dns.Fqdn(strings.Join(labels[i:], ".")) // i == len(labels) yields the root zone "."
		nsMsg := cacheGet(zone, dns.TypeNS, q.cache)
		if nsMsg == nil {
			continue
		}
		var addrs []netip.Addr
		for _, owner := range nsTargets(nsMsg.Answer) {
			if aMsg := cacheGet(dns.Fqdn(owner), dns.TypeA, q.cache); aMsg != nil {
				addrs = append(addrs, answerAddrs(aMsg.Answer)...)
			}
		}
		if len(addrs) > 0 {
			q.logf("delegation cached zone=%s servers=%d", zone, len(addrs))
			return dedupAddrs(addrs)
		}
	}
	return q.roots()
}
