package sources

// entry pairs an adapter with its per-source settings.
type entry struct {
	adapter    Adapter
	maxResults int // 0 means no source-specific cap
}

// RegisterOption configures one registry entry.
type RegisterOption func(*entry)

// WithMaxResults caps how many postings this source may be asked for,
// regardless of the query limit. Used for sources with restricted geographic
// scope where large limits only produce noise.
func WithMaxResults(max int) RegisterOption {
	return func(e *entry) {
		if max > 0 {
			e.maxResults = max
		}
	}
}

// Registry holds the configured adapters in registration order. Aggregate
// output of a collection run follows this order, not completion order.
type Registry struct {
	entries []entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an adapter to the registry.
func (r *Registry) Register(adapter Adapter, opts ...RegisterOption) {
	e := entry{adapter: adapter}
	for _, opt := range opts {
		opt(&e)
	}
	r.entries = append(r.entries, e)
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns the registered source names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.adapter.Name()
	}
	return names
}

// limitFor returns the effective limit for an entry given the query limit.
func (e entry) limitFor(queryLimit int) int {
	if e.maxResults > 0 && (queryLimit <= 0 || queryLimit > e.maxResults) {
		return e.maxResults
	}
	return queryLimit
}
