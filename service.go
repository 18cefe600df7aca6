package hostwalk

import (
	"context"

	"github.com/hostwalk/hostwalk/cache"
	"github.com/miekg/dns"
)

// LookupService is the surface embedders consume when they only need raw
// iterative lookups against the shared default cache.
type LookupService interface {
	DnsResolve(ctx context.Context, qname string, qtype uint16) (*dns.Msg, Outcome, error)
}

var _ LookupService = &Resolver{}

// DefaultCache is the process-wide cache used by DnsResolve.
var DefaultCache = cache.New()

func (r *Resolver) DnsResolve(ctx context.Context, qname string, qtype uint16) (msg *dns.Msg, outcome Outcome, err error) {
	return r.Lookup(ctx, qname, qtype, nil, DefaultCache)
}
