package nasc

import (
	"reflect"
	"strings"
	"sync"
)

// reflectionCache caches resolved descriptors so a type shared by several
// containers is only analysed once per marker configuration.
type reflectionCache struct {
	mu          sync.RWMutex
	descriptors map[cacheKey]Descriptor
}

type cacheKey struct {
	typ     reflect.Type
	markers string
}

func newReflectionCache() *reflectionCache {
	return &reflectionCache{
		descriptors: make(map[cacheKey]Descriptor),
	}
}

func markersKey(m Markers) string {
	return strings.Join(m.Inject, ",") + "|" +
		strings.Join(m.PostConstruct, ",") + "|" +
		strings.Join(m.PreDestroy, ",")
}

// getOrCompute returns the cached descriptor or computes and stores it.
// Failed computations are not cached.
func (rc *reflectionCache) getOrCompute(typ reflect.Type, markers Markers, compute func() (Descriptor, error)) (Descriptor, error) {
	key := cacheKey{typ: typ, markers: markersKey(markers)}

	// Fast path: check cache with read lock
	rc.mu.RLock()
	descriptor, exists := rc.descriptors[key]
	rc.mu.RUnlock()

	if exists {
		return descriptor, nil
	}

	descriptor, err := compute()
	if err != nil {
		return Descriptor{}, err
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	// Another goroutine may have stored it first; keep the earlier one.
	if cached, exists := rc.descriptors[key]; exists {
		return cached, nil
	}
	rc.descriptors[key] = descriptor
	return descriptor, nil
}

// len returns the number of cached descriptors.
func (rc *reflectionCache) len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.descriptors)
}

// clear clears all cached data.
func (rc *reflectionCache) clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.descriptors = make(map[cacheKey]Descriptor)
}
