package hostwalk

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// AliasStep records one link of an alias chain: Alias held a CNAME pointing
// at Name.
type AliasStep struct {
	Alias string
	Name  string
}

// ResolveChain follows the alias chain starting at name by repeatedly looking
// up CNAME records, and returns the terminal (non-alias) name together with
// the ordered alias steps taken to reach it. A name without a CNAME record is
// its own terminal with no steps.
func (r *Resolver) ResolveChain(ctx context.Context, name string, logw io.Writer, cache Cacher) (final string, steps []AliasStep, err error) {
	qry := query{
		Resolver: r,
		ctx:      ctx,
		cache:    cache,
		writer:   logw,
		start:    time.Now(),
	}
	return qry.resolveChain(dns.Fqdn(strings.ToLower(name)))
}

func (q *query) resolveChain(name string) (final string, steps []AliasStep, err error) {
	current := name
	for hops := 0; ; hops++ {
		if hops > maxChase {
			return "", nil, chaseLimitError{limit: maxChase}
		}
		var resp *dns.Msg
		if resp, _, err = q.lookup(current, dns.TypeCNAME); err != nil {
			return "", nil, err
		}
		target, ok := cnameTarget(resp.Answer, current)
		if !ok {
			break
		}
		q.logf("alias %q -> %q", current, target)
		steps = append(steps, AliasStep{Alias: current, Name: target})
		current = target
	}
	return current, steps, nil
}
