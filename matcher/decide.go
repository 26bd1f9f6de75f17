package matcher

import "fmt"

// unboundedMargin stands in for the top-1/top-2 gap when only one
// candidate exists; no competitor constrains the decision.
const unboundedMargin = 999.0

// Decide converts a ranked candidate list into the final result. The top
// candidate is applied automatically only when its score reaches autoScore
// and it beats the runner-up by at least minMargin; otherwise the whole
// ranked list is surfaced as suggestions. The rationale string records the
// score and margin for observability and has no control-flow effect.
func Decide(ranked []RankedMatch, autoScore, minMargin float64) MatchResult {
	if len(ranked) == 0 {
		return MatchResult{Kind: KindNoMatch, Rationale: "no_candidates"}
	}
	top1 := ranked[0]
	margin := unboundedMargin
	if len(ranked) > 1 {
		margin = top1.Score - ranked[1].Score
	}
	if top1.Score >= autoScore && margin >= minMargin {
		return MatchResult{
			Kind:        KindAutoCorrected,
			Best:        &top1,
			Suggestions: ranked,
			Rationale:   fmt.Sprintf("auto(score=%.1f, margin=%.1f)", top1.Score, margin),
		}
	}
	return MatchResult{
		Kind:        KindSuggestions,
		Suggestions: ranked,
		Rationale:   fmt.Sprintf("suggest(score=%.1f, margin=%.1f)", top1.Score, margin),
	}
}
