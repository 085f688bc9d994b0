// Package cache provides page and tag revalidation over Redis. Cached page
// payloads live under per-path keys; each tag keeps a set of the paths it
// covers so revalidating a tag drops every page it indexes.
//
// Callers treat invalidation as best-effort: failures are logged and
// swallowed, never surfaced to the request that triggered them.
package cache

import (
	"context"
	"time"

	"github.com/solenne-shop/solenne-backend/pkg/logger"
)

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...any) error
	SMembers(ctx context.Context, key string) ([]string, error)
	PageCacheKey(path string) string
	TagIndexKey(tag string) string
}

// Revalidator invalidates cached storefront pages by path or tag.
type Revalidator struct {
	store store
	logg  *logger.Logger
	ttl   time.Duration
}

// NewRevalidator wires a revalidator over the shared redis client.
func NewRevalidator(s store, logg *logger.Logger, pageTTL time.Duration) *Revalidator {
	return &Revalidator{store: s, logg: logg, ttl: pageTTL}
}

// StorePage caches a rendered page payload under its path and registers the
// path with each tag.
func (r *Revalidator) StorePage(ctx context.Context, path string, payload string, tags ...string) error {
	if r == nil || r.store == nil {
		return nil
	}
	key := r.store.PageCacheKey(path)
	if err := r.store.Set(ctx, key, payload, r.ttl); err != nil {
		return err
	}
	for _, tag := range tags {
		if err := r.store.SAdd(ctx, r.store.TagIndexKey(tag), path); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the cached payload for path, with ok=false on any miss or error.
func (r *Revalidator) Lookup(ctx context.Context, path string) (string, bool) {
	if r == nil || r.store == nil {
		return "", false
	}
	payload, err := r.store.Get(ctx, r.store.PageCacheKey(path))
	if err != nil {
		return "", false
	}
	return payload, true
}

// RevalidatePath drops the cached page for a single path. Errors are logged
// and swallowed.
func (r *Revalidator) RevalidatePath(ctx context.Context, path string) {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Del(ctx, r.store.PageCacheKey(path)); err != nil && r.logg != nil {
		ctx = r.logg.WithField(ctx, "path", path)
		r.logg.Warn(ctx, "cache revalidate path failed")
	}
}

// RevalidateTag drops every cached page indexed under the tag. Errors are
// logged and swallowed.
func (r *Revalidator) RevalidateTag(ctx context.Context, tag string) {
	if r == nil || r.store == nil {
		return
	}
	paths, err := r.store.SMembers(ctx, r.store.TagIndexKey(tag))
	if err != nil {
		if r.logg != nil {
			ctx = r.logg.WithField(ctx, "tag", tag)
			r.logg.Warn(ctx, "cache tag lookup failed")
		}
		return
	}

	keys := make([]string, 0, len(paths)+1)
	for _, path := range paths {
		keys = append(keys, r.store.PageCacheKey(path))
	}
	keys = append(keys, r.store.TagIndexKey(tag))

	if err := r.store.Del(ctx, keys...); err != nil && r.logg != nil {
		ctx = r.logg.WithField(ctx, "tag", tag)
		r.logg.Warn(ctx, "cache revalidate tag failed")
	}
}
