package trigram

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:  "seven tokens yield five trigrams",
			input: "Error in if (x) : missing value",
			expected: []string{
				"Error in if",
				"in if (x)",
				"if (x) :",
				"(x) : missing",
				": missing value",
			},
		},
		{
			name:     "exactly three tokens",
			input:    "Error: object not",
			expected: []string{"Error: object not"},
		},
		{
			name:     "two tokens",
			input:    "Error: boom",
			expected: nil,
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace runs are collapsed",
			input:    "  Error\tin\n\n  f()   \r\n",
			expected: []string{"Error in f()"},
		},
		{
			name:     "case and punctuation are kept",
			input:    "ERROR: Object 'X' not",
			expected: []string{"ERROR: Object 'X'", "Object 'X' not"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Index(tt.input))
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, len(tt.expected), Count(tt.input))
		})
	}
}

func TestIndex_StopsEarly(t *testing.T) {
	var got []string
	for tri := range Index("a b c d e f") {
		got = append(got, tri)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"a b c", "b c d"}, got)
}

func TestIndexAll(t *testing.T) {
	errs := []string{"a b c d", "too short", "x y z"}

	got := slices.Collect(IndexAll(errs))
	assert.Equal(t, []string{"a b c", "b c d", "x y z"}, got)
}
