// Package memdir provides an in-memory candidate source over a reference
// name list. It backs tests and the CLI's database-free mode, and it
// translates the matcher's boolean full-text queries itself since there is
// no native boolean engine behind it.
package memdir

import (
	"context"
	"strings"
	"sync"

	"namecheck/matcher"
)

// Directory is a brute-force, read-mostly candidate source. All lookups
// are linear scans; the intended directory sizes (test fixtures, CSV
// demos) make an index unnecessary.
type Directory struct {
	mu      sync.RWMutex
	records []matcher.CandidateRecord
	keys    []string // compact keys aligned with records
}

// New constructs an empty directory.
func New() *Directory {
	return &Directory{}
}

// Replace swaps the stored records atomically. Records keep their given
// order; NormalizedName must already carry the canonical comparison form.
func (d *Directory) Replace(records []matcher.CandidateRecord) {
	items := make([]matcher.CandidateRecord, len(records))
	keys := make([]string, len(records))
	for i, rec := range records {
		items[i] = rec
		keys[i] = strings.ReplaceAll(rec.NormalizedName, " ", "")
	}
	d.mu.Lock()
	d.records = items
	d.keys = keys
	d.mu.Unlock()
}

// Size returns the number of stored records.
func (d *Directory) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// ExactLookup returns the first record whose normalized name equals the
// query, or nil when absent.
func (d *Directory) ExactLookup(_ context.Context, normalizedText string) (*matcher.CandidateRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := range d.records {
		if d.records[i].NormalizedName == normalizedText {
			rec := d.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// PrefixLookup returns records whose compact key starts with prefix.
func (d *Directory) PrefixLookup(_ context.Context, prefix string, limit int) ([]matcher.CandidateRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []matcher.CandidateRecord
	for i := range d.records {
		if strings.HasPrefix(d.keys[i], prefix) {
			out = append(out, d.records[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// FullTextLookup translates the boolean query (space-separated terms, each
// required, trailing '*' allows prefix expansion) and returns records
// whose normalized name satisfies every term.
func (d *Directory) FullTextLookup(_ context.Context, booleanQuery string, limit int) ([]matcher.CandidateRecord, error) {
	terms := parseBooleanQuery(booleanQuery)
	if len(terms) == 0 {
		return nil, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []matcher.CandidateRecord
	for i := range d.records {
		if matchesAllTerms(d.records[i].NormalizedName, terms) {
			out = append(out, d.records[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// SubstringLookup returns records whose normalized name contains token.
func (d *Directory) SubstringLookup(_ context.Context, token string, limit int) ([]matcher.CandidateRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []matcher.CandidateRecord
	for i := range d.records {
		if strings.Contains(d.records[i].NormalizedName, token) {
			out = append(out, d.records[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// booleanTerm is one parsed term of the boolean query IR.
type booleanTerm struct {
	text   string
	prefix bool // trailing '*' in the query
}

func parseBooleanQuery(q string) []booleanTerm {
	var terms []booleanTerm
	for _, raw := range strings.Fields(q) {
		t := strings.TrimPrefix(raw, "+")
		prefix := strings.HasSuffix(t, "*")
		t = strings.TrimSuffix(t, "*")
		if t == "" {
			continue
		}
		terms = append(terms, booleanTerm{text: t, prefix: prefix})
	}
	return terms
}

func matchesAllTerms(name string, terms []booleanTerm) bool {
	tokens := strings.Fields(name)
	for _, term := range terms {
		matched := false
		for _, tok := range tokens {
			if term.prefix && strings.HasPrefix(tok, term.text) {
				matched = true
				break
			}
			if !term.prefix && tok == term.text {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
