package keywords

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"

	errs "scamguard/errors"
)

// DefaultPhrases are scam formulations seen across reported messages. The
// matcher normalizes them, so casing, punctuation and leet obfuscation in
// incoming text do not hide a match.
var DefaultPhrases = []string{
	"verify your account",
	"verify your otp",
	"share your otp",
	"one time password",
	"account suspended",
	"urgent action required",
	"gift card",
	"wire transfer",
	"claim your prize",
	"you have won",
	"confirm your pin",
	"update your kyc",
}

// Flagger spots known scam phrases regardless of casing, punctuation or
// leet-speak obfuscation. It complements the model score with an
// explainable signal.
type Flagger struct {
	matcher *goahocorasick.Machine
}

// NewFlagger builds the Aho-Corasick automaton from a normalized version
// of the provided phrases.
func NewFlagger(phrases []string) (*Flagger, error) {
	if len(phrases) == 0 {
		return nil, errs.ErrEmptyPhrases
	}
	patterns := make([][]rune, len(phrases))
	for i, phrase := range phrases {
		patterns[i] = normalizeRunes([]rune(phrase))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Flagger{matcher: m}, nil
}

// Flag returns the normalized phrases found in the text, in match order.
// Spacing and punctuation are stripped before matching, so "g.i.f.t
// c-a-r-d" still reports "giftcard".
func (f *Flagger) Flag(text string) []string {
	norm := normalizeRunes([]rune(text))
	if len(norm) == 0 {
		return nil
	}
	spans := f.matcher.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return nil
	}
	found := make([]string, 0, len(spans))
	for _, span := range spans {
		found = append(found, string(span.Word))
	}
	return found
}

// normalizeRunes lowercases, maps leet speak back to letters and drops
// punctuation, spacing and symbols so obfuscated phrases still match.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common leet speak characters back to their standard
// alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
