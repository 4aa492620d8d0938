package dnsname

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareLabels(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"equal", "www", "www", 0},
		{"case folded equal", "WWW", "www", 0},
		{"less", "aaa", "bbb", -1},
		{"greater", "zzz", "aaa", 1},
		{"shorter is smaller on prefix", "ab", "abc", -1},
		{"longer is greater on prefix", "abc", "ab", 1},
		{"non ascii compared unsigned", "\x80", "a", 1},
		{"digit before letter", "1", "a", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompareLabels(tt.a, tt.b))
			assert.Equal(t, -tt.expected, CompareLabels(tt.b, tt.a))
		})
	}
}

func TestCompare_CanonicalOrdering(t *testing.T) {
	// The RFC 4034 §6.1 example ordering.
	ordered := []string{
		"example",
		"a.example",
		"yljkjljk.a.example",
		"z.a.example",
		"zabc.a.example",
		"z.example",
	}
	for i := 0; i < len(ordered)-1; i++ {
		assert.Equal(t, -1, Compare(ordered[i], ordered[i+1]),
			"%s should sort before %s", ordered[i], ordered[i+1])
	}

	shuffled := []string{
		"z.example",
		"zabc.a.example",
		"example",
		"z.a.example",
		"a.example",
		"yljkjljk.a.example",
	}
	sort.Slice(shuffled, func(i, j int) bool {
		return Compare(shuffled[i], shuffled[j]) < 0
	})
	assert.Equal(t, ordered, shuffled)
}

func TestCompare_EdgeCases(t *testing.T) {
	assert.Equal(t, 0, Compare("example.com", "EXAMPLE.COM."))
	assert.Equal(t, -1, Compare("", "com"))
	assert.Equal(t, 1, Compare("com", ""))
	assert.Equal(t, 0, Compare("", "."))
	// parent sorts before child
	assert.Equal(t, -1, Compare("example.com", "www.example.com"))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("www.example.com", "WWW.Example.Com."))
	assert.False(t, Equal("www.example.com", "web.example.com"))
}
