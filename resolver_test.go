package hostwalk

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hostwalk/hostwalk/cache"
	"github.com/miekg/dns"
)

func Test_A_console_aws_amazon_com(t *testing.T) {
	if testing.Short() {
		t.Skip("live network test")
	}
	t.Parallel()
	/*
		This domain tests that CNAME chains are followed.
	*/
	r := New()
	r.OrderRoots(context.Background(), time.Millisecond*100)
	c := cache.New()
	recs, err := r.Collect(context.Background(), "console.aws.amazon.com", nil, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs.CNAME) < 1 {
		t.Fatalf("expected cname chain, got %+v", recs.CNAME)
	}
	if x := recs.CNAME[0].Alias; !strings.EqualFold(x, "console.aws.amazon.com.") {
		t.Error(x)
	}
	if len(recs.A) < 1 {
		t.Fatal("missing A record terminating chain")
	}
}

func Test_DelegationNarrowing_Live(t *testing.T) {
	if testing.Short() {
		t.Skip("live network test")
	}
	t.Parallel()
	/*
		After resolving one name under a zone, a second name under the same
		zone must be reachable without asking the roots again.
	*/
	r := New()
	r.OrderRoots(context.Background(), time.Millisecond*100)
	c := cache.New()
	if _, _, err := r.Lookup(context.Background(), "www.iana.org", dns.TypeA, nil, c); err != nil {
		t.Fatal(err)
	}
	before := c.Entries()
	if _, _, err := r.Lookup(context.Background(), "data.iana.org", dns.TypeA, nil, c); err != nil {
		t.Fatal(err)
	}
	if c.Entries() <= before {
		t.Error("second lookup cached nothing new")
	}
}
