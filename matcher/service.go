// Package matcher validates free-text name input against a reference
// directory and auto-corrects it when the evidence is strong enough. The
// pipeline is: normalization, exact lookup, tiered candidate retrieval,
// fuzzy ranking, and a confidence-gated decision between auto-correction
// and suggestions. The directory itself is an external collaborator; the
// package only issues read-only lookups and holds no per-query state
// beyond the call.
package matcher

import (
	"context"
	"log"
	"sync"
)

// Service runs the matching pipeline against one candidate source. All
// methods are safe for concurrent use: configuration is read under a lock
// and every query builds its own candidate pool.
type Service struct {
	source CandidateSource
	scorer Scorer

	cfgMu sync.RWMutex
	cfg   Config
	esc   *Escalator

	fulltext bool

	logger *log.Logger
}

// NewService constructs a service over the given source. A nil scorer
// selects the default CompositeScorer. The source's full-text capability
// is probed once here: an explicit CapabilityReporter answer wins,
// otherwise implementing FullTextSource counts as support.
func NewService(ctx context.Context, source CandidateSource, scorer Scorer, cfg Config, logger *log.Logger) (*Service, error) {
	if source == nil {
		return nil, &ConfigError{Reason: "candidate source is required"}
	}
	if scorer == nil {
		scorer = CompositeScorer{}
	}
	cfg.ApplyDefaults()

	fulltext := false
	if reporter, ok := source.(CapabilityReporter); ok {
		caps, err := reporter.Capabilities(ctx)
		if err != nil {
			return nil, wrapStore("capability probe", err)
		}
		fulltext = caps.FullText
	} else if _, ok := source.(FullTextSource); ok {
		fulltext = true
	}

	s := &Service{
		source:   source,
		scorer:   scorer,
		cfg:      cfg,
		esc:      NewEscalator(source, fulltext, cfg),
		fulltext: fulltext,
		logger:   logger,
	}
	s.logf("matcher ready (fulltext=%v, autoScore=%.0f, minMargin=%.0f)", fulltext, cfg.AutoScore, cfg.MinMargin)
	return s, nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig replaces the configuration for subsequent queries.
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.esc = NewEscalator(s.source, s.fulltext, cfg)
	s.cfgMu.Unlock()
}

// FullText reports whether the full-text tier participates in escalation.
func (s *Service) FullText() bool {
	return s.fulltext
}

// Check runs the whole pipeline for one raw input. Empty or
// whitespace-only input short-circuits to KindNoMatch without touching the
// source. Store failures surface as *StoreError.
func (s *Service) Check(ctx context.Context, raw string) (MatchResult, error) {
	s.cfgMu.RLock()
	cfg := s.cfg
	esc := s.esc
	s.cfgMu.RUnlock()

	q := NormalizeQuery(raw)
	if q.Text == "" {
		return MatchResult{Kind: KindNoMatch, Rationale: "empty_input"}, nil
	}

	hit, err := s.source.ExactLookup(ctx, q.Text)
	if err != nil {
		return MatchResult{}, wrapStore("exact lookup", err)
	}
	if hit != nil {
		return MatchResult{Kind: KindExact, Exact: hit}, nil
	}

	candidates, err := esc.Fetch(ctx, q)
	if err != nil {
		return MatchResult{}, err
	}
	ranked := RankCandidates(s.scorer, q.Text, candidates, cfg.TopK)
	result := Decide(ranked, cfg.AutoScore, cfg.MinMargin)
	s.logf("query %q: %s from %d candidates (%s)", q.Text, result.Kind, len(candidates), result.Rationale)
	return result, nil
}

// CheckAll runs Check over a batch of inputs, stopping at the first error.
func (s *Service) CheckAll(ctx context.Context, raws []string) ([]MatchResult, error) {
	results := make([]MatchResult, 0, len(raws))
	for _, raw := range raws {
		res, err := s.Check(ctx, raw)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
