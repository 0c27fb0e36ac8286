package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueKeepsFirstOccurrence(t *testing.T) {
	assert.Equal(t, []int{2, 5, 3}, Unique([]int{2, 5, 2, 3, 5}))
	assert.Nil(t, Unique[int](nil))
}

func TestFilter(t *testing.T) {
	got := Filter([]int{0, 1, 4, 9}, func(i int) bool { return i < 4 })
	assert.Equal(t, []int{0, 1}, got)
}

func TestContainsAny(t *testing.T) {
	words := []string{"yes", "please"}
	assert.True(t, ContainsAny(words, "ok", "yes"))
	assert.False(t, ContainsAny(words, "no"))
}
