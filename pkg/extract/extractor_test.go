package extract

import (
	"slices"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T, cfg Config) *Extractor {
	t.Helper()

	e, err := NewExtractor(cfg)
	require.NoError(t, err)

	return e
}

func TestExtractor_Extract(t *testing.T) {
	e := newTestExtractor(t, Config{})

	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     "blank line terminates the message",
			body:     "Error in foo(x) : bad argument\n\nmore text",
			expected: []string{"Error in foo(x) : bad argument"},
		},
		{
			name:     "warning is excluded",
			body:     "Error in log(-1) : NaNs produced\nWarning message:\nsomething else\n\n",
			expected: []string{"Error in log(-1) : NaNs produced"},
		},
		{
			name:     "in addition is excluded",
			body:     "Error: object 'y' not found\nIn addition: Warning message:\n",
			expected: []string{"Error: object 'y' not found"},
		},
		{
			name:     "closing code tag terminates",
			body:     "<pre><code>Error: object 'x' not found\n</code></pre>",
			expected: []string{"Error: object 'x' not found"},
		},
		{
			name:     "closing blockquote terminates",
			body:     "<blockquote>Error in library(foo) : there is no package called 'foo'</blockquote>",
			expected: []string{"Error in library(foo) : there is no package called 'foo'"},
		},
		{
			name: "multiple disjoint matches",
			body: "<p>Error in a() : first problem</p><p>then</p><p>Error: second problem</p>",
			expected: []string{
				"Error in a() : first problem",
				"Error: second problem",
			},
		},
		{
			name:     "message spans lines",
			body:     "Error in f(x) :\n  could not find function \"g\"\n\nCalls: f",
			expected: []string{"Error in f(x) :\n  could not find function \"g\""},
		},
		{
			name:     "keyword to colon may span lines",
			body:     "Error in\nmatrix(1:3) : oops</p>",
			expected: []string{"Error in\nmatrix(1:3) : oops"},
		},
		{
			name:     "no terminator means no match",
			body:     "Error: this message never ends",
			expected: nil,
		},
		{
			name:     "no colon means no match",
			body:     "<p>Error everywhere and nothing else</p>",
			expected: nil,
		},
		{
			name:     "no keyword",
			body:     "<p>Everything works fine: really</p>",
			expected: nil,
		},
		{
			name:     "empty body",
			body:     "",
			expected: nil,
		},
		{
			name:     "terminator right after colon yields bare prefix",
			body:     "Error:</p>",
			expected: []string{"Error:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(e.Extract(tt.body))
			assert.Equal(t, tt.expected, got)

			all, err := e.All(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, all)
		})
	}
}

func TestExtractor_StripsAtMostOneTrailingNewline(t *testing.T) {
	e := newTestExtractor(t, Config{Terminators: []string{"END"}})

	got := slices.Collect(e.Extract("Error: x\n\nEND"))
	assert.Equal(t, []string{"Error: x\n"}, got)
}

func TestExtractor_DropsInvalidUTF8(t *testing.T) {
	e := newTestExtractor(t, Config{})

	got, err := e.All("Error: \xff\xfe bad utf8\n\n")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Error:  bad utf8", got[0])
	assert.True(t, utf8.ValidString(got[0]))
	assert.NotContains(t, got[0], "\uFFFD")
}

func TestExtractor_CustomTerminatorsAreLiteral(t *testing.T) {
	e := newTestExtractor(t, Config{Terminators: []string{"(end)", "a.b"}})

	got := slices.Collect(e.Extract("Error: first (end) Error: second axb a.b"))
	assert.Equal(t, []string{"Error: first ", "Error: second axb "}, got)
}

func TestExtractor_CustomKeyword(t *testing.T) {
	e := newTestExtractor(t, Config{Keyword: "Fehler"})

	got := slices.Collect(e.Extract("Error: ignored</p>Fehler in f(): kaputt</p>"))
	assert.Equal(t, []string{"Fehler in f(): kaputt"}, got)
}

func TestExtractor_ExtractIsLazy(t *testing.T) {
	e := newTestExtractor(t, Config{})

	var seen []string
	for s := range e.Extract("<p>Error: one</p><p>Error: two</p><p>Error: three</p>") {
		seen = append(seen, s)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"Error: one", "Error: two"}, seen)
}

func TestNewExtractor_InvalidConfig(t *testing.T) {
	_, err := NewExtractor(Config{Terminators: []string{"</p>", ""}})
	require.ErrorIs(t, err, ErrEmptyTerminator)
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()

	assert.Equal(t, DefaultKeyword, cfg.Keyword)
	assert.Equal(t, DefaultTerminators, cfg.Terminators)

	cfg.Terminators[0] = "changed"
	assert.Equal(t, "\n\n", DefaultTerminators[0])
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectedErr error
	}{
		{
			name:   "valid",
			config: Config{Keyword: "Error", Terminators: []string{"</p>"}},
		},
		{
			name:        "missing keyword",
			config:      Config{Terminators: []string{"</p>"}},
			expectedErr: ErrKeywordRequired,
		},
		{
			name:        "missing terminators",
			config:      Config{Keyword: "Error"},
			expectedErr: ErrTerminatorsRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
