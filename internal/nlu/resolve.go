package nlu

import (
	"regexp"
	"strconv"

	"newsvox/pkg/util"
)

var digitsRe = regexp.MustCompile(`\d+`)

// Resolver turns "open 3" / "two" style references into an article index.
type Resolver struct {
	vocab Vocabulary
}

func NewResolver(vocab Vocabulary) *Resolver {
	return &Resolver{vocab: vocab}
}

// Candidates lists every referenced index (zero-based) in scan order:
// digit runs in text order first, then each number-word map in its declared
// order. Duplicates keep their first position.
func (r *Resolver) Candidates(u Utterance, lang string) []int {
	var found []int

	for _, d := range digitsRe.FindAllString(u.Normalized, -1) {
		n, err := strconv.Atoi(d)
		if err != nil {
			continue
		}
		found = append(found, n-1)
	}

	for _, m := range r.vocab.numberMaps(lang) {
		for _, nw := range m {
			if util.ContainsAny(u.Words, nw.Word) {
				found = append(found, nw.Value-1)
			}
		}
	}

	return util.Unique(found)
}

// Resolve picks the first candidate that exists in a set of count articles.
// Every other candidate in the utterance is discarded.
func (r *Resolver) Resolve(u Utterance, lang string, count int) (int, bool) {
	valid := util.Filter(r.Candidates(u, lang), func(i int) bool {
		return i >= 0 && i < count
	})
	if len(valid) == 0 {
		return -1, false
	}
	return valid[0], true
}
