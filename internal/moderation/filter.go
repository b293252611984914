package moderation

import (
	"regexp"
	"strings"
)

// blockedWords holds the terms rejected before any text reaches the
// generative service. Matching is case-insensitive and word-bounded, so
// "copula" or "sexton" pass while the bare word does not.
var blockedWords = []string{
	"pula", "pizda", "muie", "futu-te", "fututi", "jeg", "cacat", "cur", "sugi",
	"nigger", "faggot", "hitler", "nazi", "porn", "xxx", "sex", "escort",
}

var blockedExpr = compile(blockedWords)

func compile(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// ContainsBlocked reports whether the text contains any blocked word.
func ContainsBlocked(text string) bool {
	if text == "" {
		return false
	}
	return blockedExpr.MatchString(text)
}

// CleanRequest reports whether every provided field passes the filter.
func CleanRequest(fields ...string) bool {
	for _, f := range fields {
		if ContainsBlocked(f) {
			return false
		}
	}
	return true
}
