package match

import "sort"

// DefaultMinSimilarity is the score a candidate needs to be suggested.
const DefaultMinSimilarity = 0.6

// Suggest returns up to limit candidates whose similarity to name is at
// least minScore, best first. Ties keep alphabetical order.
func Suggest(name string, candidates []string, limit int, minScore float64) []string {
	type scored struct {
		name  string
		score float64
	}

	var ranked []scored

	seen := make(map[string]bool)

	for _, c := range candidates {
		if c == name || seen[c] {
			continue
		}

		seen[c] = true

		if s := Similarity(name, c); s >= minScore {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}

		return ranked[i].name < ranked[j].name
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.name)
	}

	return out
}
