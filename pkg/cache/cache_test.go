package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	values map[string]string
	sets   map[string][]string
	delErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}, sets: map[string][]string{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", errors.New("miss")
	}
	return v, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	if m.delErr != nil {
		return m.delErr
	}
	for _, k := range keys {
		delete(m.values, k)
		delete(m.sets, k)
	}
	return nil
}

func (m *memoryStore) SAdd(_ context.Context, key string, members ...any) error {
	for _, member := range members {
		m.sets[key] = append(m.sets[key], member.(string))
	}
	return nil
}

func (m *memoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	return m.sets[key], nil
}

func (m *memoryStore) PageCacheKey(path string) string { return "page:" + path }
func (m *memoryStore) TagIndexKey(tag string) string   { return "tag:" + tag }

func TestStoreAndLookup(t *testing.T) {
	store := newMemoryStore()
	r := NewRevalidator(store, nil, time.Minute)

	require.NoError(t, r.StorePage(context.Background(), "/products/silk-dress", `{"x":1}`, "products", "product-detail"))

	payload, ok := r.Lookup(context.Background(), "/products/silk-dress")
	require.True(t, ok)
	assert.Equal(t, `{"x":1}`, payload)
}

func TestRevalidatePathDropsPage(t *testing.T) {
	store := newMemoryStore()
	r := NewRevalidator(store, nil, time.Minute)

	require.NoError(t, r.StorePage(context.Background(), "/products", "listing"))
	r.RevalidatePath(context.Background(), "/products")

	_, ok := r.Lookup(context.Background(), "/products")
	assert.False(t, ok)
}

func TestRevalidateTagDropsEveryIndexedPage(t *testing.T) {
	store := newMemoryStore()
	r := NewRevalidator(store, nil, time.Minute)

	require.NoError(t, r.StorePage(context.Background(), "/products", "a", "products"))
	require.NoError(t, r.StorePage(context.Background(), "/products/silk-dress", "b", "products"))

	r.RevalidateTag(context.Background(), "products")

	_, ok := r.Lookup(context.Background(), "/products")
	assert.False(t, ok)
	_, ok = r.Lookup(context.Background(), "/products/silk-dress")
	assert.False(t, ok)
}

func TestRevalidateSwallowsErrors(t *testing.T) {
	store := newMemoryStore()
	store.delErr = errors.New("redis down")
	r := NewRevalidator(store, nil, time.Minute)

	// Must not panic or surface the failure.
	r.RevalidatePath(context.Background(), "/products")
	r.RevalidateTag(context.Background(), "products")
}

func TestNilRevalidatorIsSafe(t *testing.T) {
	var r *Revalidator
	r.RevalidatePath(context.Background(), "/x")
	r.RevalidateTag(context.Background(), "y")
	_, ok := r.Lookup(context.Background(), "/x")
	assert.False(t, ok)
}
