package nlu

import (
	"regexp"
	"strconv"
	"strings"
)

type outcome int

const (
	pass outcome = iota
	match
	drop
)

// rule is one row of the classification table. Apply either claims the
// utterance (match), swallows it (drop) or lets the next rule look (pass).
type rule struct {
	Name  string
	Apply func(u Utterance, st State) (Intent, outcome)
}

// Classifier evaluates its rule table in fixed priority order.
type Classifier struct {
	vocab Vocabulary
	rules []rule

	summarizeRe *regexp.Regexp
	selectRe    *regexp.Regexp
}

var summarizeRe = regexp.MustCompile(`summarize (article )?(\d+)`)

func NewClassifier(vocab Vocabulary) *Classifier {
	c := &Classifier{
		vocab:       vocab,
		summarizeRe: summarizeRe,
		selectRe:    selectRegexp(vocab.SelectVerbs),
	}

	// Order is load-bearing.
	c.rules = []rule{
		{Name: "confirmation", Apply: c.confirmation},
		{Name: "stop", Apply: c.stop},
		{Name: "pause", Apply: c.pause},
		{Name: "resume", Apply: c.resume},
		{Name: "paused", Apply: c.pausedGate},
		{Name: "headlines", Apply: c.headlines},
		{Name: "summarize", Apply: c.summarize},
		{Name: "select", Apply: c.selectOrOpen},
		{Name: "fetch", Apply: c.fetchNews},
		{Name: "fallback", Apply: c.fallback},
	}

	return c
}

// Classify maps one utterance to exactly one intent. ok is false when the
// utterance is dropped: nothing is dispatched and state stays as it is.
func (c *Classifier) Classify(u Utterance, st State) (Intent, bool) {
	for _, r := range c.rules {
		intent, res := r.Apply(u, st)
		switch res {
		case match:
			return intent, true
		case drop:
			return Intent{}, false
		}
	}
	return Intent{Kind: Unrecognized}, true
}

func (c *Classifier) confirmation(u Utterance, st State) (Intent, outcome) {
	if !st.AwaitingConfirmation {
		return Intent{}, pass
	}
	switch {
	case u.HasWord(c.vocab.YesWords):
		return Intent{Kind: Affirm}, match
	case u.HasWord(c.vocab.NoWords):
		return Intent{Kind: Deny}, match
	}
	return Intent{}, drop
}

func (c *Classifier) stop(u Utterance, _ State) (Intent, outcome) {
	for _, exact := range c.vocab.StopExact {
		if u.Normalized == exact {
			return Intent{Kind: Stop}, match
		}
	}
	if u.ContainsAny(c.vocab.StopPhrases) {
		return Intent{Kind: Stop}, match
	}
	return Intent{}, pass
}

func (c *Classifier) pause(u Utterance, _ State) (Intent, outcome) {
	if u.ContainsAny(c.vocab.PausePhrases) {
		return Intent{Kind: Pause}, match
	}
	return Intent{}, pass
}

func (c *Classifier) resume(u Utterance, _ State) (Intent, outcome) {
	if u.ContainsAny(c.vocab.ResumePhrases) {
		return Intent{Kind: Resume}, match
	}
	return Intent{}, pass
}

func (c *Classifier) pausedGate(_ Utterance, st State) (Intent, outcome) {
	if st.Paused {
		return Intent{}, drop
	}
	return Intent{}, pass
}

func (c *Classifier) headlines(u Utterance, _ State) (Intent, outcome) {
	if u.ContainsAny(c.vocab.Headlines) {
		return Intent{Kind: ReadHeadlines}, match
	}
	return Intent{}, pass
}

func (c *Classifier) summarize(u Utterance, _ State) (Intent, outcome) {
	m := c.summarizeRe.FindStringSubmatch(u.Normalized)
	if m == nil {
		return Intent{}, pass
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Intent{}, pass
	}
	return Intent{Kind: Summarize, Index: n - 1}, match
}

func (c *Classifier) selectOrOpen(u Utterance, st State) (Intent, outcome) {
	if c.selectRe != nil && c.selectRe.MatchString(u.Normalized) {
		return Intent{Kind: SelectOrOpen, Raw: u.Normalized}, match
	}

	for i, w := range u.Words {
		if c.vocab.isNumberWord(w, st.Language) {
			if c.vocab.BareNumberWords {
				return Intent{Kind: SelectOrOpen, Raw: u.Normalized}, match
			}
			if i > 0 && inList(u.Words[i-1], c.vocab.SelectVerbs) {
				return Intent{Kind: SelectOrOpen, Raw: u.Normalized}, match
			}
		}
	}
	return Intent{}, pass
}

func (c *Classifier) fetchNews(u Utterance, _ State) (Intent, outcome) {
	category, hit := c.category(u)
	if !hit && !u.ContainsAny(c.vocab.Latest) && !u.Contains(c.vocab.GenericKeyword) {
		return Intent{}, pass
	}

	var query string
	if u.HasWord(c.vocab.QueryTriggers) {
		query = stripWords(u.Words, c.vocab.Stopwords)
	}

	return Intent{Kind: FetchNews, Category: category, Query: query}, match
}

func (c *Classifier) fallback(_ Utterance, _ State) (Intent, outcome) {
	return Intent{Kind: Unrecognized}, match
}

// category returns the first declared category with a keyword hit. It does
// not score competing matches.
func (c *Classifier) category(u Utterance) (string, bool) {
	for _, cat := range c.vocab.Categories {
		if u.ContainsAny(cat.Keywords) {
			return cat.Name, true
		}
	}
	return c.vocab.DefaultCategory, false
}

func selectRegexp(verbs []string) *regexp.Regexp {
	if len(verbs) == 0 {
		return nil
	}
	quoted := make([]string, len(verbs))
	for i, v := range verbs {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return regexp.MustCompile(`(` + strings.Join(quoted, "|") + `)\s*\d+`)
}

func inList(word string, list []string) bool {
	for _, v := range list {
		if word == v {
			return true
		}
	}
	return false
}

func stripWords(words, stop []string) string {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if !inList(w, stop) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
