package search

import (
	"strings"
	"unicode/utf8"
)

// MinResultLength is the length a result must exceed to be acceptable.
const MinResultLength = 50

// Denylist holds substrings that mark provider output as a failure message.
// Matching is case-insensitive, so substantive text mentioning e.g. "rate limit"
// is rejected too.
var Denylist = []string{
	"error",
	"failed",
	"timeout",
	"unavailable",
	"not configured",
	"authentication failed",
	"rate limit",
	"no results found",
}

// IsAcceptable reports whether text looks like a usable search result: longer
// than MinResultLength characters and free of every Denylist phrase.
func IsAcceptable(text string) bool {
	if utf8.RuneCountInString(text) <= MinResultLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, phrase := range Denylist {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}
