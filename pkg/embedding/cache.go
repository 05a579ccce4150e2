package embedding

import (
	"crypto/sha256"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedProvider is a read-through TTL cache in front of any EmbeddingProvider.
// Re-embedding the same text is common (duplicate chunks, repeated queries) and
// every call is a paid network round trip.
type CachedProvider struct {
	inner EmbeddingProvider
	cache *gocache.Cache
}

func NewCachedProvider(inner EmbeddingProvider, ttl time.Duration) EmbeddingProvider {
	return &CachedProvider{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	key := cacheKey(text, taskType)
	if cached, found := p.cache.Get(key); found {
		return cached.(*EmbeddingResponse), nil
	}

	res, err := p.inner.Generate(text, taskType)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, res, gocache.DefaultExpiration)
	return res, nil
}

func cacheKey(text, taskType string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s:%x", taskType, sum)
}
