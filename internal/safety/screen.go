// Package safety screens outgoing messages for crisis language.
package safety

import "strings"

// crisisKeywords are the fixed high-risk phrases that divert a submission
// away from the completion service. Matching is substring-based, so false
// negatives are expected; a false positive only costs a redirection.
var crisisKeywords = []string{
	"hurt myself",
	"suicide",
	"kill myself",
	"self harm",
	"end my life",
	"want to die",
	"cut myself",
	"overdose",
}

// RedirectMessage is the fixed safety reply appended in place of a model
// response when a submission trips the screen.
const RedirectMessage = "⚠️ Saathi AI is not crisis support. Please contact local emergency services or a mental health professional. In India, call iCall: 9152987821."

// Screen reports whether text contains any crisis keyword,
// case-insensitively. Pure and deterministic.
func Screen(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
