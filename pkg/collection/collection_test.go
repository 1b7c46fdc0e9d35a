package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/etuition/etuition-api/pkg/collection"
)

func TestFilterNeverNil(t *testing.T) {
	out := collection.Filter([]int{1, 3}, func(n int) bool { return n%2 == 0 })
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestFirstAndIndexOf(t *testing.T) {
	s := []string{"a", "b", "c"}
	v, ok := collection.First(s, func(x string) bool { return x > "a" })
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, 2, collection.IndexOf(s, func(x string) bool { return x == "c" }))
	assert.Equal(t, -1, collection.IndexOf(s, func(x string) bool { return x == "z" }))
}

func TestSortByIsStable(t *testing.T) {
	type pair struct{ k, v int }
	s := []pair{{2, 1}, {1, 2}, {2, 3}}
	collection.SortBy(s, func(a, b pair) bool { return a.k < b.k })
	assert.Equal(t, []pair{{1, 2}, {2, 1}, {2, 3}}, s)
}

func TestWindow(t *testing.T) {
	s := []int{1, 2, 3, 4, 5, 6, 7}
	assert.Equal(t, []int{1, 2, 3}, collection.Window(s, 0, 3))
	assert.Equal(t, []int{7}, collection.Window(s, 6, 3))
	assert.Equal(t, []int{}, collection.Window(s, 9, 3))
	assert.Equal(t, []int{3, 4, 5, 6, 7}, collection.Window(s, 2, 0))
}
