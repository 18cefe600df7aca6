package hostwalk

import (
	"bytes"
	"context"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectDirectAnswer(t *testing.T) {
	t.Parallel()
	s := newScript()
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeCNAME))
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeA, rrA("example.com.", "93.184.216.34")))
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeAAAA, rrAAAA("example.com.", "2606:2800:220:1:248:1893:25c8:1946")))
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeMX, rrMX("example.com.", 10, "mail.example.com.")))
	r := testResolver(s, rootAddr)

	recs, err := r.Collect(context.Background(), "example.com", nil, newTestCache())
	require.NoError(t, err)
	assert.Empty(t, recs.CNAME)
	assert.Equal(t, []AddressRecord{{Name: "example.com.", Address: "93.184.216.34"}}, recs.A)
	assert.Equal(t, []AddressRecord{{Name: "example.com.", Address: "2606:2800:220:1:248:1893:25c8:1946"}}, recs.AAAA)
	assert.Equal(t, []MXRecord{{Name: "example.com.", Preference: 10, Exchange: "mail.example.com."}}, recs.MX)
}

func TestCollectAliasedName(t *testing.T) {
	t.Parallel()
	s := newScript()
	s.reply(rootAddr, answerMsg("www.example.com.", dns.TypeCNAME, rrCNAME("www.example.com.", "example.com.")))
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeCNAME))
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeA, rrA("example.com.", "93.184.216.34")))
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeAAAA))
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeMX))
	r := testResolver(s, rootAddr)

	recs, err := r.Collect(context.Background(), "www.example.com", nil, newTestCache())
	require.NoError(t, err)
	assert.Equal(t, []AliasStep{{Alias: "www.example.com.", Name: "example.com."}}, recs.CNAME)
	assert.Equal(t, []AddressRecord{{Name: "example.com.", Address: "93.184.216.34"}}, recs.A)
	assert.Empty(t, recs.AAAA)
	assert.Empty(t, recs.MX)
}

func TestCollectSharesTraceWriterSafely(t *testing.T) {
	t.Parallel()
	s := newScript()
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeCNAME))
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeA, rrA("example.com.", "93.184.216.34")))
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeAAAA))
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeMX))
	r := testResolver(s, rootAddr)

	// bytes.Buffer is not safe for concurrent use; the terminal lookups
	// must not reach it unserialized.
	var trace bytes.Buffer
	_, err := r.Collect(context.Background(), "example.com", &trace, newTestCache())
	require.NoError(t, err)
	out := trace.String()
	assert.Contains(t, out, "AAAA")
	assert.Contains(t, out, "MX")
}

func TestCollectUnresolvableNameYieldsNoRecords(t *testing.T) {
	t.Parallel()
	s := newScript() // every attempt times out
	r := testResolver(s, rootAddr)

	recs, err := r.Collect(context.Background(), "unreachable.test", nil, newTestCache())
	require.NoError(t, err, "an unresolvable name is not an error, it just has no records")
	assert.Empty(t, recs.CNAME)
	assert.Empty(t, recs.A)
	assert.Empty(t, recs.AAAA)
	assert.Empty(t, recs.MX)
}
