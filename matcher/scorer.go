package matcher

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Scorer computes a lexical similarity score in [0,100] between two
// normalized strings. Implementations must be symmetric in their arguments
// and score identical non-empty strings as 100.
type Scorer interface {
	Score(a, b string) float64
}

// partialDiscount is applied to the best-aligned-substring ratio when the
// longer string is at least partialDiscountAt times the shorter one; a
// short query buried in a long name is weaker evidence than a full match.
const (
	partialDiscount   = 0.9
	partialDiscountAt = 1.5
)

// CompositeScorer is the default scorer: the maximum of a full-string
// longest-common-subsequence ratio, a best-aligned-substring ratio with a
// length-difference discount, and token-sort/token-set ratios that ignore
// word order and duplicate tokens. Every component is symmetric and scores
// identical strings as 100, so the composite does too.
type CompositeScorer struct{}

// Score implements Scorer.
func (CompositeScorer) Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	best := lcsRatio(a, b)
	if r := partialRatio(a, b); r > best {
		best = r
	}
	if r := tokenSortRatio(a, b); r > best {
		best = r
	}
	if r := tokenSetRatio(a, b); r > best {
		best = r
	}
	return best
}

// lcsRatio is the classic sequence-matcher ratio: twice the length of the
// longest common subsequence over the combined length, scaled to [0,100].
func lcsRatio(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la+lb == 0 {
		return 0
	}
	return 200 * float64(edlib.LCS(a, b)) / float64(la+lb)
}

// partialRatio slides the shorter string over same-length windows of the
// longer one and keeps the best window ratio, discounted when the lengths
// diverge enough that containment alone is weak evidence.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	s := string(short)
	var best float64
	for i := 0; i+len(short) <= len(long); i++ {
		if r := lcsRatio(s, string(long[i:i+len(short)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	if float64(len(long)) >= partialDiscountAt*float64(len(short)) {
		best *= partialDiscount
	}
	return best
}

// tokenSortRatio compares the strings with their tokens in sorted order,
// neutralizing word-order differences ("smith john" vs "john smith").
func tokenSortRatio(a, b string) float64 {
	return lcsRatio(sortedTokens(a), sortedTokens(b))
}

// tokenSetRatio compares intersection-anchored reconstructions of both
// token sets, neutralizing duplicate tokens on either side.
func tokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var inter, onlyA, onlyB []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	t0 := strings.Join(inter, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	best := lcsRatio(t0, t1)
	if r := lcsRatio(t0, t2); r > best {
		best = r
	}
	if r := lcsRatio(t1, t2); r > best {
		best = r
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

// AlgorithmScorer scores with a single go-edlib algorithm, selected by
// name. It exists so deployments can trade the composite heuristic for one
// well-known metric without touching the ranking orchestration.
type AlgorithmScorer struct {
	name string
	alg  edlib.Algorithm
}

// NewAlgorithmScorer resolves an algorithm name to a scorer. Valid names:
// levenshtein, damerau-levenshtein, osa-damerau-levenshtein, lcs, jaro,
// jaro-winkler, cosine.
func NewAlgorithmScorer(name string) (*AlgorithmScorer, error) {
	algorithms := map[string]edlib.Algorithm{
		"levenshtein":             edlib.Levenshtein,
		"damerau-levenshtein":     edlib.DamerauLevenshtein,
		"osa-damerau-levenshtein": edlib.OSADamerauLevenshtein,
		"lcs":                     edlib.Lcs,
		"jaro":                    edlib.Jaro,
		"jaro-winkler":            edlib.JaroWinkler,
		"cosine":                  edlib.Cosine,
	}
	alg, ok := algorithms[name]
	if !ok {
		return nil, fmt.Errorf("unknown similarity algorithm: %q", name)
	}
	return &AlgorithmScorer{name: name, alg: alg}, nil
}

// Name returns the configured algorithm name.
func (s *AlgorithmScorer) Name() string {
	return s.name
}

// Score implements Scorer.
func (s *AlgorithmScorer) Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	sim, err := edlib.StringsSimilarity(a, b, s.alg)
	if err != nil {
		return 0
	}
	return float64(sim) * 100
}
