package matcher

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

// maxPrefixLen bounds the key prefix used by the first retrieval tier; six
// characters keeps the directory's key index selective without starving
// recall on short names.
const maxPrefixLen = 6

// maxQueryTokens bounds the boolean full-text query to the most selective
// tokens of the input.
const maxQueryTokens = 3

// wildcardMinLen is the minimum token length that earns a trailing prefix
// wildcard in the boolean query; shorter tokens expand too broadly.
const wildcardMinLen = 4

// Escalator pools candidates from the source through tiered fallback:
// a cheap index-friendly prefix lookup first, then full text (when the
// source supports it), then a last-resort substring scan. Later tiers run
// only while the pool is still below MinCandidatesOK, and every tier is
// capped, so worst-case work stays bounded. The returned pool is
// deduplicated by id.
type Escalator struct {
	source   CandidateSource
	fulltext FullTextSource // nil when the capability is absent
	cfg      Config
}

// NewEscalator builds an escalator over source. fulltext controls whether
// the full-text tier participates; it is ignored when the source does not
// implement FullTextSource.
func NewEscalator(source CandidateSource, fulltext bool, cfg Config) *Escalator {
	cfg.ApplyDefaults()
	e := &Escalator{source: source, cfg: cfg}
	if fulltext {
		if fts, ok := source.(FullTextSource); ok {
			e.fulltext = fts
		}
	}
	return e
}

// Fetch runs the tiers for one normalized query and returns the pooled,
// id-deduplicated candidates. The pool may be empty. Any source failure is
// returned as a *StoreError without internal retries.
func (e *Escalator) Fetch(ctx context.Context, q NormalizedQuery) ([]CandidateRecord, error) {
	seen := make(map[int64]struct{})
	var pool []CandidateRecord
	merge := func(recs []CandidateRecord) {
		for _, rec := range recs {
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			seen[rec.ID] = struct{}{}
			pool = append(pool, rec)
		}
	}

	if prefix := keyPrefix(q.Key); prefix != "" {
		recs, err := e.source.PrefixLookup(ctx, prefix, e.cfg.PrefixLimit)
		if err != nil {
			return nil, wrapStore("prefix lookup", err)
		}
		merge(recs)
		if len(pool) >= e.cfg.MinCandidatesOK {
			return pool, nil
		}
	}

	tokens := queryTokens(q.Text)
	if len(tokens) == 0 {
		return pool, nil
	}

	if e.fulltext != nil {
		recs, err := e.fulltext.FullTextLookup(ctx, BuildBooleanQuery(tokens), e.cfg.FulltextLimit)
		if err != nil {
			return nil, wrapStore("full-text lookup", err)
		}
		merge(recs)
		if len(pool) >= e.cfg.MinCandidatesOK {
			return pool, nil
		}
	}

	recs, err := e.source.SubstringLookup(ctx, tokens[0], e.cfg.LikeLimit)
	if err != nil {
		return nil, wrapStore("substring lookup", err)
	}
	merge(recs)
	return pool, nil
}

// keyPrefix trims the compact key to the prefix-tier length.
func keyPrefix(key string) string {
	r := []rune(key)
	if len(r) > maxPrefixLen {
		r = r[:maxPrefixLen]
	}
	return string(r)
}

// queryTokens splits normalized text on whitespace and keeps up to
// maxQueryTokens tokens, longest first; ties keep input order.
func queryTokens(text string) []string {
	tokens := strings.Fields(text)
	sort.SliceStable(tokens, func(i, j int) bool {
		return utf8.RuneCountInString(tokens[i]) > utf8.RuneCountInString(tokens[j])
	})
	if len(tokens) > maxQueryTokens {
		tokens = tokens[:maxQueryTokens]
	}
	return tokens
}

// BuildBooleanQuery renders tokens as a boolean-mode full-text query:
// every token is required, and tokens of wildcardMinLen or more runes get
// a trailing wildcard for prefix expansion.
func BuildBooleanQuery(tokens []string) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if utf8.RuneCountInString(t) >= wildcardMinLen {
			parts = append(parts, "+"+t+"*")
		} else {
			parts = append(parts, "+"+t)
		}
	}
	return strings.Join(parts, " ")
}
