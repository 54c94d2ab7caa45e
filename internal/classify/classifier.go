// Package classify implements rule-based text classification for issue
// comments: claim detection, progress detection, abandonment detection,
// and confidence scoring over hedge/commitment language.
package classify

import (
	"strings"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

// normalize lowercases and trims text before pattern matching.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// DetectClaim reports whether the comment text claims the issue.
// A comment that also reports progress is treated as a status update on
// work already underway, not a fresh claim.
func DetectClaim(text string) bool {
	t := normalize(text)
	return matchAny(claimRules, t) && !matchAny(progressRules, t)
}

// DetectProgress reports whether the comment text describes work in flight.
func DetectProgress(text string) bool {
	return matchAny(progressRules, normalize(text))
}

// DetectAbandonment reports whether the comment text walks away from a claim.
func DetectAbandonment(text string) bool {
	return matchAny(abandonmentRules, normalize(text))
}

// ClaimTypeOf infers how the claim was made from its phrasing.
// Assignment requests mention assigning; claiming/dibs/taking language is
// self-assignment; everything else is a plain comment claim.
func ClaimTypeOf(text string) model.ClaimType {
	t := normalize(text)
	switch {
	case assignmentTypePattern.MatchString(t):
		return model.ClaimTypeAssignment
	case selfAssignedTypePattern.MatchString(t):
		return model.ClaimTypeSelfAssigned
	default:
		return model.ClaimTypeComment
	}
}
