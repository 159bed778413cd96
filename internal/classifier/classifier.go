// Package classifier decides whether a query is code-oriented, which
// drives prompt-template selection downstream.
package classifier

import "strings"

// The keyword set and the substring match are part of the observable
// contract, false positives included ("correct" in a non-coding sense
// still classifies as code).
var codeKeywords = []string{
	"code",
	"function",
	"bug",
	"error",
	"fix",
	"debug",
	"implement",
	"programming",
	"syntax",
	"correct",
}

// IsCodeRelated reports whether the query contains any code keyword,
// case-insensitively. Empty or whitespace-only input returns false;
// rejecting truly empty queries is the caller's job.
func IsCodeRelated(query string) bool {
	lowered := strings.ToLower(query)
	for _, keyword := range codeKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
