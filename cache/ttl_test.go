package cache

import (
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLFirstWriterWinsWhileLive(t *testing.T) {
	t.Parallel()
	cache := NewTTL()
	qname := dns.Fqdn("example.com")
	cache.DnsSet(msgA(qname, "192.0.2.1"))
	cache.DnsSet(msgA(qname, "192.0.2.2"))

	got := cache.DnsGet(qname, dns.TypeA)
	require.NotNil(t, got)
	assert.Equal(t, "192.0.2.1", got.Answer[0].(*dns.A).A.String())
	assert.True(t, got.Zero)
}

func TestTTLEntryExpires(t *testing.T) {
	t.Parallel()
	cache := NewTTL()
	cache.MinTTL = 50 * time.Millisecond
	cache.MaxTTL = 50 * time.Millisecond
	qname := dns.Fqdn("short-lived.example.com")
	cache.DnsSet(msgA(qname, "192.0.2.3"))

	require.NotNil(t, cache.DnsGet(qname, dns.TypeA))
	time.Sleep(150 * time.Millisecond)
	assert.Nil(t, cache.DnsGet(qname, dns.TypeA), "entries expire after their ttl")
}
