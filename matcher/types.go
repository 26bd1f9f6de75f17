package matcher

// Kind tags the outcome of a match pipeline run.
type Kind string

const (
	// KindExact means the normalized input matched a directory entry verbatim.
	KindExact Kind = "exact"
	// KindAutoCorrected means the best candidate cleared both confidence gates.
	KindAutoCorrected Kind = "autocorrected"
	// KindSuggestions means candidates exist but none is safe to apply automatically.
	KindSuggestions Kind = "suggestions"
	// KindNoMatch means the directory offered nothing usable for this input.
	KindNoMatch Kind = "nomatch"
)

// CandidateRecord is a single entry of the reference directory. Records are
// immutable once fetched; the pipeline never writes back to the store.
type CandidateRecord struct {
	ID             int64  `json:"id"`
	DisplayName    string `json:"displayName"`
	NormalizedName string `json:"normalizedName"`
}

// RankedMatch pairs a candidate with its similarity score in [0,100].
type RankedMatch struct {
	Candidate CandidateRecord `json:"candidate"`
	Score     float64         `json:"score"`
}

// MatchResult is the outcome surfaced to callers. Exactly one shape is
// populated depending on Kind: Exact for KindExact, Best plus the full
// Suggestions list for KindAutoCorrected, Suggestions for KindSuggestions.
type MatchResult struct {
	Kind        Kind             `json:"kind"`
	Exact       *CandidateRecord `json:"exact,omitempty"`
	Best        *RankedMatch     `json:"best,omitempty"`
	Suggestions []RankedMatch    `json:"suggestions,omitempty"`
	Rationale   string           `json:"rationale,omitempty"`
}

// NormalizedQuery is the canonical form of one raw input: Text for
// comparison and full-text lookups, Key (Text with spaces removed) for
// prefix lookups against the directory's key index.
type NormalizedQuery struct {
	Text string
	Key  string
}

// Config aggregates the tunables of the pipeline. A zero value is usable
// after ApplyDefaults; the defaults mirror the reference deployment.
type Config struct {
	// AutoScore is the minimum top-1 score required to auto-correct.
	AutoScore float64 `json:"autoScore" toml:"auto_score"`
	// MinMargin is the minimum gap between top-1 and top-2 scores
	// required to auto-correct.
	MinMargin float64 `json:"minMargin" toml:"min_margin"`
	// TopK bounds the ranked suggestion list.
	TopK int `json:"topK" toml:"top_k"`
	// PrefixLimit caps candidates fetched by the prefix tier.
	PrefixLimit int `json:"prefixLimit" toml:"prefix_limit"`
	// FulltextLimit caps candidates fetched by the full-text tier.
	FulltextLimit int `json:"fulltextLimit" toml:"fulltext_limit"`
	// LikeLimit caps candidates fetched by the substring tier.
	LikeLimit int `json:"likeLimit" toml:"like_limit"`
	// MinCandidatesOK stops escalation once this many candidates are pooled.
	MinCandidatesOK int `json:"minCandidatesOk" toml:"min_candidates_ok"`
}

// ApplyDefaults populates zero values with the reference tuning.
func (c *Config) ApplyDefaults() {
	if c.AutoScore == 0 {
		c.AutoScore = 90
	}
	if c.MinMargin == 0 {
		c.MinMargin = 5
	}
	if c.TopK <= 0 {
		c.TopK = 10
	}
	if c.PrefixLimit <= 0 {
		c.PrefixLimit = 5000
	}
	if c.FulltextLimit <= 0 {
		c.FulltextLimit = 20000
	}
	if c.LikeLimit <= 0 {
		c.LikeLimit = 20000
	}
	if c.MinCandidatesOK <= 0 {
		c.MinCandidatesOK = 200
	}
}
