package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(t *testing.T, c *Classifier, raw string, st State) (Intent, bool) {
	t.Helper()
	return c.Classify(NewUtterance(raw), st)
}

func TestClassifyTable(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())
	listening := State{Language: "en-US"}

	tests := []struct {
		name string
		in   string
		want Intent
	}{
		{"exact stop", "  Stop ", Intent{Kind: Stop}},
		{"stop phrase", "please stop listening now", Intent{Kind: Stop}},
		{"pause", "pause listening", Intent{Kind: Pause}},
		{"resume", "resume listening", Intent{Kind: Resume}},
		{"headlines beat latest keyword", "read the headlines", Intent{Kind: ReadHeadlines}},
		{"summarize", "summarize 2", Intent{Kind: Summarize, Index: 1}},
		{"summarize article", "summarize article 3", Intent{Kind: Summarize, Index: 2}},
		{"open digits", "open 3", Intent{Kind: SelectOrOpen, Raw: "open 3"}},
		{"open glued digits", "open3", Intent{Kind: SelectOrOpen, Raw: "open3"}},
		{"select word", "select two", Intent{Kind: SelectOrOpen, Raw: "select two"}},
		{"bare number word", "three", Intent{Kind: SelectOrOpen, Raw: "three"}},
		{"latest", "latest news", Intent{Kind: FetchNews, Category: "general"}},
		{"headlines keyword", "headlines", Intent{Kind: FetchNews, Category: "general"}},
		{"category", "sports", Intent{Kind: FetchNews, Category: "sports"}},
		{"category synonym", "any cricket updates", Intent{Kind: FetchNews, Category: "sports"}},
		{"generic news", "news", Intent{Kind: FetchNews, Category: "general"}},
		{"query", "news about elections", Intent{Kind: FetchNews, Category: "general", Query: "elections"}},
		{"category and query", "technology news regarding chips", Intent{Kind: FetchNews, Category: "technology", Query: "technology chips"}},
		{"no words inside words", "my phone is broken", Intent{Kind: Unrecognized}},
		{"unrecognized", "what time is it", Intent{Kind: Unrecognized}},
		{"empty", "   ", Intent{Kind: Unrecognized}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classify(t, c, tt.in, listening)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStopOutranksCategory(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())

	got, ok := classify(t, c, "stop listening to sports news", State{})
	require.True(t, ok)
	assert.Equal(t, Stop, got.Kind)
}

func TestFirstDeclaredCategoryWins(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())

	got, _ := classify(t, c, "football and business news", State{})
	assert.Equal(t, "business", got.Category)

	got, _ = classify(t, c, "tech or sports", State{})
	assert.Equal(t, "sports", got.Category)
}

func TestConfirmationGate(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())
	awaiting := State{AwaitingConfirmation: true}

	got, ok := classify(t, c, "yes please", awaiting)
	require.True(t, ok)
	assert.Equal(t, Affirm, got.Kind)

	got, ok = classify(t, c, "no thanks", awaiting)
	require.True(t, ok)
	assert.Equal(t, Deny, got.Kind)

	for _, in := range []string{"maybe later", "stop listening", "sports news", "i know"} {
		_, ok = classify(t, c, in, awaiting)
		assert.False(t, ok, in)
	}
}

func TestPausedDropsAllButControlPhrases(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())
	paused := State{Paused: true}

	_, ok := classify(t, c, "sports news", paused)
	assert.False(t, ok)

	_, ok = classify(t, c, "gibberish", paused)
	assert.False(t, ok)

	got, ok := classify(t, c, "resume listening", paused)
	require.True(t, ok)
	assert.Equal(t, Resume, got.Kind)

	got, ok = classify(t, c, "stop", paused)
	require.True(t, ok)
	assert.Equal(t, Stop, got.Kind)
}

func TestBareNumberWordsCanBeDisabled(t *testing.T) {
	vocab := DefaultVocabulary()
	vocab.BareNumberWords = false
	c := NewClassifier(vocab)

	got, _ := classify(t, c, "three", State{})
	assert.Equal(t, Unrecognized, got.Kind)

	got, _ = classify(t, c, "open three", State{})
	assert.Equal(t, SelectOrOpen, got.Kind)
}

func TestLocalizedNumberWords(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())

	got, _ := classify(t, c, "दो", State{Language: "hi-IN"})
	assert.Equal(t, SelectOrOpen, got.Kind)

	got, _ = classify(t, c, "दो", State{Language: "en-US"})
	assert.Equal(t, Unrecognized, got.Kind)
}

func TestRuleOrder(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())

	var names []string
	for _, r := range c.rules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"confirmation", "stop", "pause", "resume", "paused",
		"headlines", "summarize", "select", "fetch", "fallback",
	}, names)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "open 3", Normalize("  Open 3\n"))
	assert.Equal(t, "", Normalize(""))

	u := NewUtterance("Select, TWO!")
	assert.Equal(t, []string{"select", "two"}, u.Words)
}
