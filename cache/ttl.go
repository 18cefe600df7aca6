package cache

import (
	"math"
	"time"

	"github.com/ReneKroon/ttlcache"
	"github.com/miekg/dns"
)

const DefaultMinTTL = 10 * time.Second // ten seconds
const DefaultMaxTTL = 6 * time.Hour    // six hours
const DefaultNXTTL = time.Hour         // one hour

// TTL is an alternative cache backend for long-running embedders that honors
// record TTLs, backed by ttlcache. Within an entry's lifetime it behaves like
// Cache: the first writer wins until the entry expires.
type TTL struct {
	MinTTL time.Duration // always cache responses for at least this long
	MaxTTL time.Duration // never cache responses for longer than this
	NXTTL  time.Duration // cache NXDOMAIN responses for this long
	cacher *ttlcache.Cache
}

func NewTTL() *TTL {
	cacher := ttlcache.NewCache()
	cacher.SkipTtlExtensionOnHit(true)
	return &TTL{
		MinTTL: DefaultMinTTL,
		MaxTTL: DefaultMaxTTL,
		NXTTL:  DefaultNXTTL,
		cacher: cacher,
	}
}

func (t *TTL) DnsSet(msg *dns.Msg) {
	if t != nil && msg != nil && !msg.Zero && len(msg.Question) == 1 {
		key := ttlKey(msg.Question[0].Name, msg.Question[0].Qtype)
		if _, ok := t.cacher.Get(key); ok {
			return
		}
		msg = msg.Copy()
		msg.Zero = true
		ttl := t.NXTTL
		if msg.Rcode != dns.RcodeNameError {
			ttl = max(t.MinTTL, time.Duration(minDNSMsgTTL(msg))*time.Second)
			ttl = min(t.MaxTTL, ttl)
		}
		t.cacher.SetWithTTL(key, msg, ttl)
	}
}

func (t *TTL) DnsGet(qname string, qtype uint16) (msg *dns.Msg) {
	if t != nil {
		if val, ok := t.cacher.Get(ttlKey(qname, qtype)); ok {
			msg = val.(*dns.Msg)
		}
	}
	return
}

func ttlKey(qname string, qtype uint16) string {
	return dns.Type(qtype).String() + " " + qname
}

func minDNSMsgTTL(msg *dns.Msg) (minTTL int) {
	minTTL = math.MaxInt
	for _, rrs := range [][]dns.RR{msg.Answer, msg.Ns, msg.Extra} {
		for _, rr := range rrs {
			if rr != nil {
				minTTL = min(minTTL, int(rr.Header().Ttl))
			}
		}
	}
	if minTTL == math.MaxInt {
		minTTL = -1
	}
	return
}
