package cluster

import (
	"strings"
	"unicode"
)

// tokenize splits a document into lowercase terms. Letters, digits and
// hyphens form terms; everything else separates them. Stopwords,
// single-rune terms and pure-numeric terms are dropped — mixed terms like
// "gpt-4" or "irb120" are kept.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := cleanToken(current.String())
		current.Reset()
		if word == "" || len(word) < 2 {
			return
		}
		if isNumericOnly(word) {
			return
		}
		if IsStopword(word) {
			return
		}
		tokens = append(tokens, word)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// cleanToken strips leading/trailing hyphens and collapses runs of hyphens.
func cleanToken(token string) string {
	token = strings.Trim(token, "-")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	return token
}

func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}
