package feed

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const defaultCacheTTL = 5 * time.Minute

// CachedRepository decorates a Repository with an in-process TTL cache keyed by
// package name. Feed listings change rarely; repeated resolutions within the
// TTL reuse the previous answer instead of re-listing the container.
type CachedRepository struct {
	inner Repository
	ttl   time.Duration
	cache *ristretto.Cache[string, []PackageInfo]
}

// NewCachedRepository wraps inner with a TTL cache. A non-positive ttl falls
// back to the default.
func NewCachedRepository(inner Repository, ttl time.Duration) (*CachedRepository, error) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []PackageInfo]{
		NumCounters: 1024,
		MaxCost:     256,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &CachedRepository{inner: inner, ttl: ttl, cache: cache}, nil
}

// GetPackages returns the cached listing when fresh, otherwise delegates to the
// wrapped repository. Failed listings are never cached.
func (r *CachedRepository) GetPackages(ctx context.Context, packageName string) ([]PackageInfo, error) {
	if cached, found := r.cache.Get(packageName); found {
		return cached, nil
	}

	packages, err := r.inner.GetPackages(ctx, packageName)
	if err != nil {
		return nil, err
	}

	r.cache.SetWithTTL(packageName, packages, 1, r.ttl)
	r.cache.Wait()
	return packages, nil
}

// Close releases the cache resources
func (r *CachedRepository) Close() {
	r.cache.Close()
}
