package proxy

import (
	"context"
	"net/http"
)

// Nombres de caché versionados: subir la versión invalida lo anterior en la
// activación, igual que el service worker original del frontend.
const (
	CacheStatic  = "planprod-static-v1"
	CacheDynamic = "planprod-dynamic-v1"
)

// CachedResponse is a serializable snapshot of an upstream response.
type CachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// CacheStore abstracts the named-cache storage behind the shell proxy.
// Implementations: Redis for deployment, in-memory for tests.
type CacheStore interface {
	// Get returns the cached response for key in the named cache, with a
	// found flag; a miss is not an error.
	Get(ctx context.Context, cache, key string) (*CachedResponse, bool, error)
	Put(ctx context.Context, cache, key string, resp *CachedResponse) error
	// DeleteCache removes a named cache and all its entries.
	DeleteCache(ctx context.Context, cache string) error
	// ListCaches returns the names of every cache that holds entries.
	ListCaches(ctx context.Context) ([]string, error)
}
