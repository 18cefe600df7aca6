package hostwalk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"
)

type query struct {
	*Resolver
	ctx     context.Context
	cache   Cacher
	writer  io.Writer
	start   time.Time
	depth   int
	queries int
}

const maxChase = 16    // max alias chase / glueless nesting depth
const maxQueries = 256 // max query attempts for a single top-level call

func (q *query) dive() (err error) {
	q.depth++
	if q.depth > maxChase {
		err = chaseLimitError{limit: maxChase}
	}
	return
}

func (q *query) surface() {
	q.depth--
}

// lookup runs the iterative engine for one (qname, qtype) key. The qname must
// already be a lowercased FQDN. No alias chasing happens here: a response
// whose answer section is present is terminal regardless of what it contains,
// except that a CNAME-type query that yields a CNAME-free answer degrades to
// the empty placeholder.
func (q *query) lookup(qname string, qtype uint16) (resp *dns.Msg, outcome Outcome, err error) {
	if err = q.dive(); err != nil {
		return
	}
	defer q.surface()

	q.logf("LOOKUP %s %q", dns.Type(qtype), qname)
	if resp = cacheGet(qname, qtype, q.cache); resp != nil {
		q.logf("cache hit %s %q", dns.Type(qtype), qname)
		return resp, outcomeOf(resp), nil
	}

	m := new(dns.Msg)
	m.SetQuestion(qname, qtype)
	m.RecursionDesired = false

	servers := q.closestDelegation(qname)

	for {
		var referred bool

		for _, server := range servers {
			attempt, xerr := q.exchange(m, server)
			if xerr != nil {
				if errors.Is(xerr, ErrResolutionLoop) {
					return nil, OutcomeExhausted, xerr
				}
				q.logf("attempt failed server=%s err=%v", server, xerr)
				continue
			}

			if len(attempt.Answer) > 0 {
				if qtype == dns.TypeCNAME && !hasRRType(attempt.Answer, dns.TypeCNAME) {
					// Asked for the alias itself and got something else back.
					attempt = emptyResponseFor(m)
				}
				cacheStore(attempt, q.cache)
				return attempt, outcomeOf(attempt), nil
			}

			if nsOwners := nsTargets(attempt.Ns); len(nsOwners) > 0 {
				next, rerr := q.followReferral(attempt)
				if rerr != nil {
					return nil, OutcomeExhausted, rerr
				}
				if len(next) == 0 {
					// Glueless referral with no resolvable NS target; the
					// server set must never go empty, so this referral is
					// unusable and the next parent server gets its turn.
					q.logf("referral unusable qname=%s server=%s", qname, server)
					continue
				}
				servers = next
				referred = true
				break
			}

			// No answer and no referral: terminal as-is. outcomeOf keeps
			// the tag identical when the entry is replayed from cache.
			cacheStore(attempt, q.cache)
			q.logf("terminal empty %s %q rcode=%s", dns.Type(qtype), qname, dns.RcodeToString[attempt.Rcode])
			return attempt, outcomeOf(attempt), nil
		}

		if !referred {
			resp = emptyResponseFor(m)
			resp.Rcode = dns.RcodeServerFailure
			cacheStore(resp, q.cache)
			q.logf("exhausted %s %q", dns.Type(qtype), qname)
			return resp, OutcomeExhausted, nil
		}
	}
}

// followReferral digests a referral response: caches the delegated NS set
// under the zone it names, harvests and caches glue addresses, and resolves
// NS target addresses through nested lookups when no glue was supplied.
// Returns the replacement server set, which may be empty.
func (q *query) followReferral(resp *dns.Msg) (next []netip.Addr, err error) {
	zone, ok := delegationZone(resp.Ns)
	if !ok {
		return nil, nil
	}
	nsOwners := extractDelegationNS(resp, zone)
	if len(nsOwners) == 0 {
		return nil, nil
	}
	q.logf("referral zone=%s ns=%d", zone, len(nsOwners))

	nsMsg := new(dns.Msg)
	nsMsg.SetQuestion(zone, dns.TypeNS)
	nsMsg.Answer = append(nsMsg.Answer, resp.Ns...)
	cacheStore(nsMsg, q.cache)

	for _, rr := range resp.Extra {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		addr := ipToAddr(a.A)
		if !addr.IsValid() {
			continue
		}
		next = append(next, addr)
		glueMsg := new(dns.Msg)
		glueMsg.SetQuestion(strings.ToLower(a.Hdr.Name), dns.TypeA)
		glueMsg.Answer = append(glueMsg.Answer, rr)
		cacheStore(glueMsg, q.cache)
	}

	if len(next) == 0 {
		if next, err = q.resolveNSAddrs(nsOwners); err != nil {
			return nil, err
		}
	}
	return dedupAddrs(next), nil
}

// resolveNSAddrs resolves NS owner names to addresses via nested lookups,
// stopping at the first owner that yields at least one address.
func (q *query) resolveNSAddrs(nsOwners []string) (addrs []netip.Addr, err error) {
	for _, host := range nsOwners {
		msg, _, lerr := q.lookup(dns.Fqdn(host), dns.TypeA)
		if lerr != nil {
			if errors.Is(lerr, ErrResolutionLoop) {
				return nil, lerr
			}
			continue
		}
		addrs = append(addrs, answerAddrs(msg.Answer)...)
		if len(addrs) > 0 {
			q.logf("resolveNS resolved host=%s addrs=%d", host, len(addrs))
			break
		}
	}
	return dedupAddrs(addrs), nil
}

func (q *query) exchange(m *dns.Msg, server netip.Addr) (resp *dns.Msg, err error) {
	q.queries++
	if q.queries > maxQueries {
		return nil, queryLimitError{limit: maxQueries}
	}
	question := m.Question[0]
	q.logf("SENDING  udp4: @%s %s %q", server.String(), dns.Type(question.Qtype), question.Name)
	start := time.Now()
	if resp, err = q.Transport.Exchange(q.ctx, m, server); err == nil {
		if resp == nil {
			err = errors.New("nil response")
		} else {
			q.logQueryReceive(server, question, resp, time.Since(start))
		}
	}
	return
}

func (q *query) logf(format string, args ...any) {
	if q.writer != nil {
		_, _ = fmt.Fprintf(q.writer, "\n[%6dms]%*s%s",
			time.Since(q.start).Milliseconds(), 1+q.depth*2, "", fmt.Sprintf(format, args...))
	}
}

func (q *query) logQueryReceive(server netip.Addr, question dns.Question, resp *dns.Msg, dur time.Duration) {
	var flag string
	if resp.Authoritative {
		flag = " AUTH"
	}
	q.logf("RECEIVED udp4: @%s %s %q => %s [%s] (%v%s)",
		server.String(),
		dns.Type(question.Qtype),
		question.Name,
		dns.RcodeToString[resp.Rcode],
		formatCounts(resp),
		dur.Round(time.Millisecond),
		flag,
	)
}
