package hostwalk

import (
	"context"
	"io"
	"sync"

	"github.com/miekg/dns"
)

// AddressRecord is a presentation-ready A or AAAA record.
type AddressRecord struct {
	Name    string
	Address string
}

// MXRecord is a presentation-ready mail exchanger record.
type MXRecord struct {
	Name       string
	Preference uint16
	Exchange   string
}

// Records holds the terminal records for one collected name, keyed the way
// the presentation layer prints them.
type Records struct {
	CNAME []AliasStep
	A     []AddressRecord
	AAAA  []AddressRecord
	MX    []MXRecord
}

// syncWriter serializes writes to a trace writer shared by the fan-out
// goroutines; the caller's writer need not be safe for concurrent use.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) Write(p []byte) (n int, err error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// Collect resolves name to its terminal records: it walks the alias chain,
// then looks up A, AAAA and MX for the terminal name and flattens the answer
// sections. The three terminal lookups run concurrently; the shared cache
// keeps first-writer-wins semantics under the fan-out.
func (r *Resolver) Collect(ctx context.Context, name string, logw io.Writer, cache Cacher) (recs *Records, err error) {
	final, steps, err := r.ResolveChain(ctx, name, logw, cache)
	if err != nil {
		return nil, err
	}
	if logw != nil {
		logw = &syncWriter{w: logw}
	}

	recs = &Records{CNAME: steps}
	var errA, errAAAA, errMX error
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		var msg *dns.Msg
		if msg, _, errA = r.Lookup(ctx, final, dns.TypeA, logw, cache); errA == nil {
			recs.A = addressRecords(msg.Answer, dns.TypeA)
		}
	}()
	go func() {
		defer wg.Done()
		var msg *dns.Msg
		if msg, _, errAAAA = r.Lookup(ctx, final, dns.TypeAAAA, logw, cache); errAAAA == nil {
			recs.AAAA = addressRecords(msg.Answer, dns.TypeAAAA)
		}
	}()
	go func() {
		defer wg.Done()
		var msg *dns.Msg
		if msg, _, errMX = r.Lookup(ctx, final, dns.TypeMX, logw, cache); errMX == nil {
			recs.MX = mxRecords(msg.Answer)
		}
	}()
	wg.Wait()

	for _, lerr := range []error{errA, errAAAA, errMX} {
		if lerr != nil {
			return nil, lerr
		}
	}
	return recs, nil
}

func addressRecords(rrs []dns.RR, qtype uint16) (out []AddressRecord) {
	for _, rr := range rrs {
		switch a := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				out = append(out, AddressRecord{Name: a.Hdr.Name, Address: a.A.String()})
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				out = append(out, AddressRecord{Name: a.Hdr.Name, Address: a.AAAA.String()})
			}
		}
	}
	return
}

func mxRecords(rrs []dns.RR) (out []MXRecord) {
	for _, rr := range rrs {
		if mx, ok := rr.(*dns.MX); ok {
			out = append(out, MXRecord{Name: mx.Hdr.Name, Preference: mx.Preference, Exchange: mx.Mx})
		}
	}
	return
}
