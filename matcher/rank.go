package matcher

import "sort"

// RankCandidates scores every candidate against the normalized query text
// and returns the top topK matches ordered by descending score. Equal
// scores break ties by ascending candidate id, which keeps the order
// deterministic regardless of how the candidate pool was assembled.
func RankCandidates(scorer Scorer, queryText string, candidates []CandidateRecord, topK int) []RankedMatch {
	if len(candidates) == 0 || topK <= 0 {
		return nil
	}
	ranked := make([]RankedMatch, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, RankedMatch{
			Candidate: c,
			Score:     scorer.Score(queryText, c.NormalizedName),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].Candidate.ID < ranked[j].Candidate.ID
		}
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
