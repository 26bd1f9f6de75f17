package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScorer maps candidate names to fixed scores.
type stubScorer map[string]float64

func (s stubScorer) Score(_, b string) float64 { return s[b] }

func TestRankCandidatesOrdersByScore(t *testing.T) {
	candidates := []CandidateRecord{
		{ID: 1, NormalizedName: "low"},
		{ID: 2, NormalizedName: "high"},
		{ID: 3, NormalizedName: "mid"},
	}
	scores := stubScorer{"low": 10, "high": 90, "mid": 50}

	ranked := RankCandidates(scores, "query", candidates, 10)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(2), ranked[0].Candidate.ID)
	assert.Equal(t, int64(3), ranked[1].Candidate.ID)
	assert.Equal(t, int64(1), ranked[2].Candidate.ID)
}

func TestRankCandidatesTieBreaksByID(t *testing.T) {
	candidates := []CandidateRecord{
		{ID: 7, NormalizedName: "b"},
		{ID: 3, NormalizedName: "a"},
		{ID: 5, NormalizedName: "c"},
	}
	scores := stubScorer{"a": 80, "b": 80, "c": 80}

	ranked := RankCandidates(scores, "query", candidates, 10)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(3), ranked[0].Candidate.ID)
	assert.Equal(t, int64(5), ranked[1].Candidate.ID)
	assert.Equal(t, int64(7), ranked[2].Candidate.ID)
}

func TestRankCandidatesTruncatesToTopK(t *testing.T) {
	candidates := make([]CandidateRecord, 0, 20)
	scores := stubScorer{}
	for i := 1; i <= 20; i++ {
		name := string(rune('a' + i - 1))
		candidates = append(candidates, CandidateRecord{ID: int64(i), NormalizedName: name})
		scores[name] = float64(i)
	}

	ranked := RankCandidates(scores, "query", candidates, 5)
	require.Len(t, ranked, 5)
	assert.Equal(t, int64(20), ranked[0].Candidate.ID)
	assert.Equal(t, int64(16), ranked[4].Candidate.ID)
}

func TestRankAndDecideTypoNeighbor(t *testing.T) {
	candidates := []CandidateRecord{
		{ID: 1, NormalizedName: "john smith"},
		{ID: 2, NormalizedName: "jon smith"},
	}
	ranked := RankCandidates(CompositeScorer{}, "john smith", candidates, 10)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(1), ranked[0].Candidate.ID)
	assert.Equal(t, 100.0, ranked[0].Score)
	assert.InDelta(t, 94.7, ranked[1].Score, 0.1)

	res := Decide(ranked, 90, 5)
	assert.Equal(t, KindAutoCorrected, res.Kind)
	require.NotNil(t, res.Best)
	assert.Equal(t, int64(1), res.Best.Candidate.ID)
}

func TestRankCandidatesEmpty(t *testing.T) {
	assert.Nil(t, RankCandidates(stubScorer{}, "query", nil, 10))
	assert.Nil(t, RankCandidates(stubScorer{}, "query", []CandidateRecord{{ID: 1}}, 0))
}
