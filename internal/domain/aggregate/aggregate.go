// Package aggregate counts value frequencies for charting. Results are
// ordered ascending by count; ties keep first-appearance order.
package aggregate

import "slices"

// Bucket is the count of one value.
type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CrossBucket is the co-occurrence count of a value and an outcome.
type CrossBucket struct {
	Value   string `json:"value"`
	Outcome string `json:"outcome"`
	Count   int    `json:"count"`
}

// Count returns the frequency of each distinct value.
func Count(values []string) []Bucket {
	index := make(map[string]int)
	out := make([]Bucket, 0)
	for _, v := range values {
		if i, ok := index[v]; ok {
			out[i].Count++
			continue
		}
		index[v] = len(out)
		out = append(out, Bucket{Value: v, Count: 1})
	}
	slices.SortStableFunc(out, func(a, b Bucket) int { return a.Count - b.Count })
	return out
}

type pair struct {
	value, outcome string
}

// CrossCount groups values[i] with outcomes[i] and counts each pair. When the
// slices differ in length the extra tail of the longer one is ignored.
func CrossCount(values, outcomes []string) []CrossBucket {
	n := min(len(values), len(outcomes))
	index := make(map[pair]int)
	out := make([]CrossBucket, 0)
	for i := 0; i < n; i++ {
		k := pair{value: values[i], outcome: outcomes[i]}
		if j, ok := index[k]; ok {
			out[j].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, CrossBucket{Value: k.value, Outcome: k.outcome, Count: 1})
	}
	slices.SortStableFunc(out, func(a, b CrossBucket) int { return a.Count - b.Count })
	return out
}

// Total sums the counts of buckets.
func Total(buckets []Bucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}

// Outcomes lists the distinct outcomes of buckets in first-appearance order.
func Outcomes(buckets []CrossBucket) []string {
	return distinct(buckets, func(b CrossBucket) string { return b.Outcome })
}

// Values lists the distinct values of buckets in first-appearance order.
func Values(buckets []CrossBucket) []string {
	return distinct(buckets, func(b CrossBucket) string { return b.Value })
}

func distinct(buckets []CrossBucket, key func(CrossBucket) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, b := range buckets {
		k := key(b)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
