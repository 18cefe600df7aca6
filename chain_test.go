package hostwalk

import (
	"context"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveChainFollowsAliases(t *testing.T) {
	t.Parallel()
	s := newScript()
	s.reply(rootAddr, answerMsg("a.example.com.", dns.TypeCNAME, rrCNAME("a.example.com.", "b.example.com.")))
	s.reply(rootAddr, answerMsg("b.example.com.", dns.TypeCNAME, rrCNAME("b.example.com.", "c.example.com.")))
	s.reply(rootAddr, answerMsg("c.example.com.", dns.TypeCNAME))
	r := testResolver(s, rootAddr)

	final, steps, err := r.ResolveChain(context.Background(), "a.example.com", nil, newTestCache())
	require.NoError(t, err)
	assert.Equal(t, "c.example.com.", final)
	assert.Equal(t, []AliasStep{
		{Alias: "a.example.com.", Name: "b.example.com."},
		{Alias: "b.example.com.", Name: "c.example.com."},
	}, steps)
}

func TestResolveChainTerminalWithoutAlias(t *testing.T) {
	t.Parallel()
	s := newScript()
	s.reply(rootAddr, answerMsg("example.com.", dns.TypeCNAME))
	r := testResolver(s, rootAddr)

	final, steps, err := r.ResolveChain(context.Background(), "example.com", nil, newTestCache())
	require.NoError(t, err)
	assert.Equal(t, "example.com.", final)
	assert.Empty(t, steps)
}

func TestResolveChainLoopDetected(t *testing.T) {
	t.Parallel()
	s := newScript()
	s.reply(rootAddr, answerMsg("a.example.com.", dns.TypeCNAME, rrCNAME("a.example.com.", "b.example.com.")))
	s.reply(rootAddr, answerMsg("b.example.com.", dns.TypeCNAME, rrCNAME("b.example.com.", "a.example.com.")))
	r := testResolver(s, rootAddr)

	_, _, err := r.ResolveChain(context.Background(), "a.example.com", nil, newTestCache())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResolutionLoop)
}
