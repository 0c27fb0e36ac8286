package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFirstCandidateWins(t *testing.T) {
	r := NewResolver(DefaultVocabulary())

	idx, ok := r.Resolve(NewUtterance("open 2 or select 5"), "en-US", 5)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestResolveDigitsBeforeWords(t *testing.T) {
	r := NewResolver(DefaultVocabulary())

	assert.Equal(t, []int{3, 0}, r.Candidates(NewUtterance("one or 4"), "en"))
	assert.Equal(t, []int{1}, r.Candidates(NewUtterance("open 2 and two"), "en"))
}

func TestResolveFiltersOutOfRange(t *testing.T) {
	r := NewResolver(DefaultVocabulary())

	idx, ok := r.Resolve(NewUtterance("open 7 or two"), "en", 5)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = r.Resolve(NewUtterance("open 7"), "en", 5)
	assert.False(t, ok)

	_, ok = r.Resolve(NewUtterance("open 0"), "en", 5)
	assert.False(t, ok)

	_, ok = r.Resolve(NewUtterance("open 1"), "en", 0)
	assert.False(t, ok)
}

func TestResolveLocalizedWords(t *testing.T) {
	r := NewResolver(DefaultVocabulary())

	idx, ok := r.Resolve(NewUtterance("तीन"), "hi-IN", 5)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = r.Resolve(NewUtterance("तीन"), "en-US", 5)
	assert.False(t, ok)
}
