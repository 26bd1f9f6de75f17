package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes accented letters and drops the combining marks,
// so "Jöhn" and "Élodie" compare as "john" and "elodie".
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes raw text for comparison: Unicode NFKC, lowercase,
// accent folding, then every rune that is not an ASCII digit/letter, an
// extended-Latin letter or a space becomes a space, and whitespace runs
// collapse to single spaces. Empty or whitespace-only input yields "".
//
// This algorithm must stay byte-for-byte equivalent to the normalization
// used to populate the directory's comparison column; any drift silently
// degrades exact-match and prefix recall.
func Normalize(raw string) string {
	s := norm.NFKC.String(raw)
	s = strings.ToLower(s)
	s, _, _ = transform.String(foldAccents, s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'À' && r <= 'ÿ' && unicode.IsLetter(r):
			// Extended-Latin letters without a combining-mark decomposition
			// (ø, ß, æ, ...) survive the fold and stay significant.
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Key builds the compact lookup form used by the directory's prefix index:
// the normalized text with spaces removed.
func Key(raw string) string {
	return strings.ReplaceAll(Normalize(raw), " ", "")
}

// NormalizeQuery derives both canonical forms of a raw input in one pass.
func NormalizeQuery(raw string) NormalizedQuery {
	text := Normalize(raw)
	return NormalizedQuery{
		Text: text,
		Key:  strings.ReplaceAll(text, " ", ""),
	}
}
