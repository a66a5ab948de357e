package showcase

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/incode-debug/debuggee/pkg/report"
)

// CacheCapacity is the size of the bounded cache exhibit.
const CacheCapacity = 3

// CacheKeys are added to the bounded cache in this order.
var CacheKeys = []string{"alpha", "beta", "gamma", "delta", "epsilon"}

// CacheResult describes the state of the bounded cache after filling.
type CacheResult struct {
	// Keys are the resident keys, oldest first.
	Keys    []string
	Evicted []string
}

// globalCache stays reachable so the container can be inspected after
// BoundedCache returns.
var globalCache *lru.Cache

// BoundedCache fills an LRU cache past its capacity so that both resident
// and evicted entries are observable.
func BoundedCache(r *report.Reporter) CacheResult {
	var res CacheResult
	c, err := lru.NewWithEvict(CacheCapacity, func(key, _ interface{}) {
		res.Evicted = append(res.Evicted, key.(string))
	})
	if err != nil {
		panic(err)
	}
	for i, k := range CacheKeys {
		c.Add(k, (i+1)*10)
	}
	for _, k := range c.Keys() {
		res.Keys = append(res.Keys, k.(string))
	}
	globalCache = c

	r.Println("Bounded cache created:")
	r.Value("capacity", CacheCapacity)
	r.Value("resident", res.Keys)
	r.Value("evicted", res.Evicted)
	return res
}
