package tls

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPskCache(t *testing.T) {
	cache := NewMemoryPskCache()

	_, ok := cache.Get("example.com")
	assert.False(t, ok)

	psk := CachedPsk{Secret: []byte("secret"), MaxEarlyDataSize: 1 << 14, Alpn: "h2"}
	cache.Put("example.com", psk)

	got, ok := cache.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, psk, got)

	// Overwrites replace.
	cache.Put("example.com", CachedPsk{Secret: []byte("newer")})
	got, ok = cache.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, []byte("newer"), got.Secret)

	cache.Remove("example.com")
	_, ok = cache.Get("example.com")
	assert.False(t, ok)

	// Removing a missing identity is fine.
	cache.Remove("example.com")
}

// The cache may be shared by many sessions at once.
func TestMemoryPskCacheConcurrent(t *testing.T) {
	cache := NewMemoryPskCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			identity := fmt.Sprintf("host-%d.example.com", i)
			for j := 0; j < 100; j++ {
				cache.Put(identity, CachedPsk{Secret: []byte(identity)})
				if psk, ok := cache.Get(identity); ok {
					assert.Equal(t, []byte(identity), psk.Secret)
				}
				cache.Remove(identity)
			}
		}()
	}
	wg.Wait()
}
