package collapse

import "sort"

// Registry selects the collapse policy of each column: a per-column override
// when configured, the fallback policy otherwise.
type Registry struct {
	fallback  Policy
	perColumn map[string]Policy
}

// Option configures a Registry.
type Option func(*Registry)

// WithFallback sets the policy used for columns without an override.
func WithFallback(p Policy) Option {
	return func(r *Registry) {
		if p != nil {
			r.fallback = p
		}
	}
}

// WithColumnPolicy assigns p to column.
func WithColumnPolicy(column string, p Policy) Option {
	return func(r *Registry) {
		if p != nil {
			r.perColumn[column] = p
		}
	}
}

// WithAllowLists registers an AllowList policy per column of lists.
func WithAllowLists(catchAll string, lists map[string][]string) Option {
	return func(r *Registry) {
		for column, allowed := range lists {
			r.perColumn[column] = NewAllowList(catchAll, allowed...)
		}
	}
}

// NewRegistry builds a Registry. Without options every column uses the
// default Threshold policy.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		fallback:  NewThreshold(DefaultThreshold, DefaultCatchAll),
		perColumn: make(map[string]Policy),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// For returns the policy for column.
func (r *Registry) For(column string) Policy {
	if p, ok := r.perColumn[column]; ok {
		return p
	}
	return r.fallback
}

// Apply collapses values with the policy of column.
func (r *Registry) Apply(column string, values []string) []string {
	return r.For(column).Apply(values)
}

// Overrides lists the columns with a dedicated policy, sorted.
func (r *Registry) Overrides() []string {
	out := make([]string, 0, len(r.perColumn))
	for c := range r.perColumn {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
