package cache

import (
	"sync"

	"github.com/miekg/dns"
)

type cacheQtype struct {
	mu    sync.RWMutex
	cache map[string]*dns.Msg
}

func newCacheQtype() *cacheQtype {
	return &cacheQtype{cache: make(map[string]*dns.Msg)}
}

func (cq *cacheQtype) entries() (n int) {
	cq.mu.RLock()
	n = len(cq.cache)
	cq.mu.RUnlock()
	return
}

// setIfAbsent keeps the existing entry if one is present; the presence check
// and the write happen under the same lock so first-writer-wins holds under
// concurrent lookups.
func (cq *cacheQtype) setIfAbsent(msg *dns.Msg) {
	qname := msg.Question[0].Name
	cq.mu.Lock()
	if _, ok := cq.cache[qname]; !ok {
		cq.cache[qname] = msg
	}
	cq.mu.Unlock()
}

func (cq *cacheQtype) get(qname string) (msg *dns.Msg) {
	cq.mu.RLock()
	msg = cq.cache[qname]
	cq.mu.RUnlock()
	return
}
