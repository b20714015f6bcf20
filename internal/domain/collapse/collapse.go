// Package collapse folds rare or disallowed categorical values into a
// catch-all label before they are charted.
package collapse

// Defaults used when the configuration leaves a field empty.
const (
	DefaultThreshold = 71
	DefaultCatchAll  = "Outro"
)

// Policy rewrites the values of one column. Implementations never change the
// number of values.
type Policy interface {
	// Name identifies the policy in logs and API payloads.
	Name() string
	// Apply returns a new slice with collapsed values; values is not modified.
	Apply(values []string) []string
}

// Threshold replaces every value occurring strictly fewer than Min times
// with CatchAll.
type Threshold struct {
	Min      int
	CatchAll string
}

// NewThreshold returns a Threshold policy, filling zero fields with defaults.
func NewThreshold(minCount int, catchAll string) Threshold {
	if minCount <= 0 {
		minCount = DefaultThreshold
	}
	if catchAll == "" {
		catchAll = DefaultCatchAll
	}
	return Threshold{Min: minCount, CatchAll: catchAll}
}

func (Threshold) Name() string { return "threshold" }

func (t Threshold) Apply(values []string) []string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	out := make([]string, len(values))
	for i, v := range values {
		if counts[v] < t.Min {
			out[i] = t.CatchAll
			continue
		}
		out[i] = v
	}
	return out
}

// AllowList keeps only the listed values and maps everything else, however
// frequent, to CatchAll.
type AllowList struct {
	allowed  map[string]struct{}
	order    []string
	catchAll string
}

// NewAllowList builds an AllowList policy.
func NewAllowList(catchAll string, allowed ...string) AllowList {
	if catchAll == "" {
		catchAll = DefaultCatchAll
	}
	a := AllowList{
		allowed:  make(map[string]struct{}, len(allowed)),
		catchAll: catchAll,
	}
	for _, v := range allowed {
		if _, dup := a.allowed[v]; dup {
			continue
		}
		a.allowed[v] = struct{}{}
		a.order = append(a.order, v)
	}
	return a
}

func (AllowList) Name() string { return "allow_list" }

// Allowed returns the kept values in declaration order.
func (a AllowList) Allowed() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

func (a AllowList) Apply(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if _, ok := a.allowed[v]; ok {
			out[i] = v
			continue
		}
		out[i] = a.catchAll
	}
	return out
}
