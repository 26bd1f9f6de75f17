package matcher

import "context"

// CandidateSource exposes read-only lookups over the reference directory.
// Implementations must be safe for concurrent use; the pipeline issues no
// writes. ExactLookup returns nil without error when nothing matches.
type CandidateSource interface {
	ExactLookup(ctx context.Context, normalizedText string) (*CandidateRecord, error)
	PrefixLookup(ctx context.Context, prefix string, limit int) ([]CandidateRecord, error)
	SubstringLookup(ctx context.Context, token string, limit int) ([]CandidateRecord, error)
}

// FullTextSource is the optional full-text capability of a candidate
// source. The boolean query uses the intermediate representation produced
// by BuildBooleanQuery; backends without native boolean-mode prefix
// wildcards must translate it.
type FullTextSource interface {
	CandidateSource
	FullTextLookup(ctx context.Context, booleanQuery string, limit int) ([]CandidateRecord, error)
}

// Capabilities describes the optional lookup features a source supports.
type Capabilities struct {
	FullText bool
}

// CapabilityReporter lets a source answer the capability probe explicitly,
// e.g. after inspecting its schema. Sources that do not implement it are
// assumed to support full text iff they implement FullTextSource.
type CapabilityReporter interface {
	Capabilities(ctx context.Context) (Capabilities, error)
}
