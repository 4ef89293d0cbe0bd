package common

import (
	"sort"

	"route-recon/internal/model"
)

// methodRank orders verbs the way API references usually list them
var methodRank = map[string]int{
	"GET":     0,
	"POST":    1,
	"PUT":     2,
	"PATCH":   3,
	"DELETE":  4,
	"HEAD":    5,
	"OPTIONS": 6,
}

func rank(method string) int {
	if r, ok := methodRank[method]; ok {
		return r
	}
	return len(methodRank)
}

// SortEndpoints returns a copy of endpoints ordered by path, then verb.
// The input (emission order) is left untouched.
func SortEndpoints(endpoints []model.EndpointInfo) []model.EndpointInfo {
	sorted := make([]model.EndpointInfo, len(endpoints))
	copy(sorted, endpoints)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return rank(sorted[i].Method) < rank(sorted[j].Method)
	})
	return sorted
}

// MethodCount is the number of endpoints using one verb
type MethodCount struct {
	Method string
	Count  int
}

// CountMethods tallies endpoints per verb in rank order
func CountMethods(endpoints []model.EndpointInfo) []MethodCount {
	counts := make(map[string]int)
	for _, ep := range endpoints {
		counts[ep.Method]++
	}

	out := make([]MethodCount, 0, len(counts))
	for method, n := range counts {
		out = append(out, MethodCount{Method: method, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if rank(out[i].Method) != rank(out[j].Method) {
			return rank(out[i].Method) < rank(out[j].Method)
		}
		return out[i].Method < out[j].Method
	})
	return out
}
