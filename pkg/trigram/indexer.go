// Package trigram splits error strings into word trigrams and counts them
package trigram

import (
	"iter"
	"strings"
)

// Size is the number of tokens in a trigram
const Size = 3

// Tokens splits s on runs of whitespace. Case and punctuation are kept.
func Tokens(s string) []string {
	return strings.Fields(s)
}

// Index lazily yields every run of three consecutive tokens in s, joined by
// a single space. Strings with fewer than three tokens yield nothing.
func Index(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		tokens := Tokens(s)

		for i := 0; i+Size <= len(tokens); i++ {
			if !yield(strings.Join(tokens[i:i+Size], " ")) {
				return
			}
		}
	}
}

// IndexAll yields the trigrams of every string in order
func IndexAll(errs []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, s := range errs {
			for t := range Index(s) {
				if !yield(t) {
					return
				}
			}
		}
	}
}

// Count returns how many trigrams Index yields for s
func Count(s string) int {
	n := len(Tokens(s)) - Size + 1
	if n < 0 {
		return 0
	}

	return n
}
