package tls

import "sync"

// CachedPsk is a resumption secret plus the parameters that were negotiated
// when it was issued. The parameters are what early data assumes; they are
// compared against the final negotiated set before a resend.
type CachedPsk struct {
	Secret []byte
	Ticket []byte

	MaxEarlyDataSize uint32

	Version     Version
	CipherSuite CipherSuite
	Alpn        string
}

// PskCache stores resumption secrets across connections, keyed by identity.
// Implementations must support concurrent get/put/remove: a single cache
// instance may be shared by many sessions.
type PskCache interface {
	Get(identity string) (CachedPsk, bool)
	Put(identity string, psk CachedPsk)
	Remove(identity string)
}

// MemoryPskCache is an in-memory PskCache.
type MemoryPskCache struct {
	mu   sync.Mutex
	psks map[string]CachedPsk
}

var _ PskCache = (*MemoryPskCache)(nil)

func NewMemoryPskCache() *MemoryPskCache {
	return &MemoryPskCache{psks: make(map[string]CachedPsk)}
}

func (c *MemoryPskCache) Get(identity string) (CachedPsk, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	psk, ok := c.psks[identity]
	return psk, ok
}

func (c *MemoryPskCache) Put(identity string, psk CachedPsk) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.psks[identity] = psk
}

func (c *MemoryPskCache) Remove(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.psks, identity)
}
