package compare

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Registry keeps one View per browser session. Sessions unused for ttl, or
// pushed out by newer ones beyond size, start over idle.
type Registry struct {
	mu      sync.Mutex
	views   *expirable.LRU[string, *View]
	fetcher Fetcher
}

// NewRegistry constructs a Registry.
func NewRegistry(size int, ttl time.Duration, fetcher Fetcher) *Registry {
	return &Registry{
		views:   expirable.NewLRU[string, *View](size, nil, ttl),
		fetcher: fetcher,
	}
}

// View returns the view for key, creating it when missing. Each call
// restarts the key's ttl.
func (r *Registry) View(key string) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.views.Get(key); ok {
		// Get leaves the expiry alone; re-adding pushes it out.
		r.views.Add(key, v)
		return v
	}
	v := NewView(r.fetcher)
	r.views.Add(key, v)
	return v
}

// Len reports the number of live views.
func (r *Registry) Len() int {
	return r.views.Len()
}
