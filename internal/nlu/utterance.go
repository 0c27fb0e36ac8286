package nlu

import (
	"strings"
	"unicode"

	"newsvox/pkg/util"
)

// Utterance is one finalized transcript segment.
type Utterance struct {
	Raw        string
	Normalized string
	Words      []string
}

// Normalize lowercases the transcript and trims surrounding whitespace.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func NewUtterance(raw string) Utterance {
	norm := Normalize(raw)
	return Utterance{
		Raw:        raw,
		Normalized: norm,
		Words:      strings.FieldsFunc(norm, isSeparator),
	}
}

// Contains is a plain substring check against the normalized text.
func (u Utterance) Contains(phrase string) bool {
	return phrase != "" && strings.Contains(u.Normalized, phrase)
}

// ContainsAny reports the first phrase found as a substring.
func (u Utterance) ContainsAny(phrases []string) bool {
	for _, p := range phrases {
		if u.Contains(p) {
			return true
		}
	}
	return false
}

// HasWord matches whole words only, so "no" never fires inside "know".
func (u Utterance) HasWord(words []string) bool {
	return util.ContainsAny(u.Words, words...)
}

// Devanagari vowel signs are marks, not letters; keep them inside words.
func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
}
