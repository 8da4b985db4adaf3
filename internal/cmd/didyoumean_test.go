package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"deals", "deals", 0},
		{"confrim", "confirm", 2},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "%s/%s", tt.a, tt.b)
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []string{"breeders", "poultries", "registers", "advertisings", "deals"}
	assert.Equal(t, "deals", suggestCommand("Deal", commands))
	assert.Equal(t, "registers", suggestCommand("registrs", commands))
	assert.Equal(t, "advertisings", suggestCommand("advtsg", commands))
	assert.Equal(t, "", suggestCommand("zzzzzzzz", commands))
}

func TestSuggestFlag(t *testing.T) {
	flags := []string{"--price", "--external-id", "-o"}
	assert.Equal(t, "--price", suggestFlag("--prise", flags))
	assert.Equal(t, "", suggestFlag("--", flags))
	assert.Equal(t, "", suggestFlag("--completely-different", flags))
}
