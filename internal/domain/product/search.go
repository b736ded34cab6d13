package product

import "strings"

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}

// FilterByTerm applies MatchesTerm over a window of products, preserving
// order. The search window is whatever slice the caller fetched; corpus-wide
// search is out of scope for the catalog.
func FilterByTerm(ps Products, term string) Products {
	lower := strings.ToLower(strings.TrimSpace(term))
	if lower == "" {
		return ps
	}
	var out Products
	for _, p := range ps {
		if p.MatchesTerm(lower) {
			out = append(out, p)
		}
	}
	return out
}
