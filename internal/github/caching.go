package github

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/orgscout/pkg/nested"
	"github.com/mesh-intelligence/orgscout/pkg/types"
)

// CachingGetter serves documents from a ResponseStore while they are younger
// than its TTL and falls through to another JSONGetter otherwise. Fresh
// responses are written back to the store.
//
// Entries are keyed by URL plus an optional scope. Responses fetched with a
// token can include private data, so callers scope the cache by credential
// with WithCacheScope(TokenScope(token)).
type CachingGetter struct {
	next   JSONGetter
	store  types.ResponseStore
	ttl    time.Duration
	scope  string
	now    func() time.Time
	logger *slog.Logger
}

// CachingOption configures a CachingGetter.
type CachingOption func(*CachingGetter)

// WithCacheLogger sets the logger for cache hits, misses and store failures.
func WithCacheLogger(l *slog.Logger) CachingOption {
	return func(g *CachingGetter) { g.logger = l }
}

// WithCacheScope partitions the cache: entries saved under one scope are
// invisible to getters with another. The empty scope is the anonymous one.
func WithCacheScope(scope string) CachingOption {
	return func(g *CachingGetter) { g.scope = scope }
}

// TokenScope returns a cache scope that identifies token without revealing
// it. An empty token yields the anonymous scope.
func TokenScope(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return "token-" + hex.EncodeToString(sum[:6])
}

// CacheKey returns the store key for url under scope. Request URLs never
// carry a fragment, so the scope rides in one.
func CacheKey(url, scope string) string {
	if scope == "" {
		return url
	}
	return url + "#" + scope
}

// NewCachingGetter wraps next with store. A non-positive ttl keeps entries
// forever.
func NewCachingGetter(next JSONGetter, store types.ResponseStore, ttl time.Duration, opts ...CachingOption) *CachingGetter {
	g := &CachingGetter{
		next:   next,
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GetJSON implements JSONGetter. Store failures are logged and never
// returned; only errors from the wrapped getter reach the caller.
func (g *CachingGetter) GetJSON(ctx context.Context, url string) (nested.Value, error) {
	key := CacheKey(url, g.scope)
	if v, ok := g.cached(key); ok {
		return v, nil
	}

	v, err := g.next.GetJSON(ctx, url)
	if err != nil {
		return nested.Value{}, err
	}

	body, err := json.Marshal(v)
	if err != nil {
		g.logger.Warn("cache encode failed", "url", url, "err", err)
		return v, nil
	}
	if _, err := g.store.Save(key, body); err != nil {
		g.logger.Warn("cache save failed", "url", url, "err", err)
	}
	return v, nil
}

// cached returns the stored document for key when it is present, fresh and
// decodable.
func (g *CachingGetter) cached(key string) (nested.Value, bool) {
	resp, err := g.store.Load(key)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			g.logger.Warn("cache load failed", "key", key, "err", err)
		} else {
			g.logger.Debug("cache miss", "key", key)
		}
		return nested.Value{}, false
	}
	if resp.Expired(g.ttl, g.now()) {
		g.logger.Debug("cache expired", "key", key, "fetched_at", resp.FetchedAt)
		return nested.Value{}, false
	}
	v, err := nested.Decode(resp.Body)
	if err != nil {
		g.logger.Warn("cache entry corrupt", "key", key, "err", err)
		return nested.Value{}, false
	}
	g.logger.Debug("cache hit", "key", key, "fetched_at", resp.FetchedAt)
	return v, true
}
