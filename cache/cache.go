// Package cache keeps large objects that are expensive to build, such as
// parsed game descriptions, so that they are built once per process.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boardstate/config"
)

// LoadFunc builds the object for key.
type LoadFunc[T any] func(cfg *config.Config, key string) (T, error)

// A Cache maps keys to objects built on first use. It is safe for
// concurrent use.
type Cache[T any] struct {
	sync.Mutex
	objects map[string]T
}

// New creates an empty cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{objects: make(map[string]T)}
}

// Load returns the object for key, building it with load if it is not
// cached yet. Failed loads are not cached.
func (c *Cache[T]) Load(cfg *config.Config, key string, load LoadFunc[T]) (T, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := load(cfg, key)
	if err != nil {
		return obj, err
	}
	c.objects[key] = obj
	return obj, nil
}

// Forget drops key, so the next Load builds it again.
func (c *Cache[T]) Forget(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

// Len is the number of cached objects.
func (c *Cache[T]) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}
