package hostwalk

import (
	"context"
	"net/netip"
	"sync"
	"time"

	"github.com/miekg/dns"
)

type rootRtt struct {
	addr netip.Addr
	rtt  time.Duration
}

func timeRoot(ctx context.Context, r *Resolver, wg *sync.WaitGroup, rt *rootRtt) {
	defer wg.Done()
	const numProbes = 3
	rt.rtt = time.Hour
	m := new(dns.Msg)
	m.SetQuestion(".", dns.TypeNS)
	m.RecursionDesired = false
	var rtt time.Duration
	for i := 0; i < numProbes; i++ {
		now := time.Now()
		if _, err := r.Transport.Exchange(ctx, m, rt.addr); err != nil {
			return
		}
		rtt += time.Since(now)
	}
	rt.rtt = rtt / numProbes
}
