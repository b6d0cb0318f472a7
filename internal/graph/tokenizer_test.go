package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"case caption", "Johnson v. Smith motion research", []string{"johnson", "smith", "motion", "research"}},
		{"punctuation stripped", "Re: Smith's deposition (draft)!", []string{"smiths", "deposition", "draft"}},
		{"stop words dropped", "notes from the meeting with them", []string{"notes", "meeting"}},
		{"duplicates kept", "Smith smith SMITH", []string{"smith", "smith", "smith"}},
		{"underscores and digits", "case_file 2025 docket", []string{"case_file", "2025", "docket"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestJaccard(t *testing.T) {
	a := TokenSet("Johnson v. Smith motion research")
	b := TokenSet("Johnson v. Smith hearing transcript")

	assert.InDelta(t, 2.0/6.0, Jaccard(a, b), 1e-9)
	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
	assert.Equal(t, 1.0, Jaccard(a, a))
	assert.Equal(t, 0.0, Jaccard(a, TokenSet("billing")))
	assert.Equal(t, 0.0, Jaccard(TokenSet(""), TokenSet("")))
}

func TestSharedTokens(t *testing.T) {
	a := TokenSet("smith johnson motion")
	b := TokenSet("motion johnson brief")
	assert.Equal(t, []string{"johnson", "motion"}, sharedTokens(a, b))
	assert.Empty(t, sharedTokens(a, TokenSet("unrelated")))
}
