package match

import "sort"

// sortAndRank orders results by overall score descending and assigns
// 1-based ranks. Ties break on skills, then experience, then candidate
// ID ascending, so two distinct candidates never compare equal and the
// ordering is reproducible across runs.
func sortAndRank(results []Ranked) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i].Breakdown, results[j].Breakdown
		if a.Overall != b.Overall {
			return a.Overall > b.Overall
		}
		if a.Skills != b.Skills {
			return a.Skills > b.Skills
		}
		if a.Experience != b.Experience {
			return a.Experience > b.Experience
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	for i := range results {
		results[i].Rank = i + 1
	}
}
