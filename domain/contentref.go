package domain

import "strings"

// Content references look like tag URIs:
//
//	tag:nextthought.com,2011-10:provider-type-specific
//
// The CONTENT and META channels only accept bodies that carry a
// syntactically valid reference.

const contentRefPrefix = "tag:nextthought.com,2011-10:"

// IsValidContentRef checks the reference grammar: the fixed prefix
// followed by three non-empty dash-separated fields. Semantic resolution
// of the reference is the content library's problem, not ours.
func IsValidContentRef(ref string) bool {
	if !strings.HasPrefix(ref, contentRefPrefix) {
		return false
	}
	rest := strings.TrimPrefix(ref, contentRefPrefix)
	parts := strings.SplitN(rest, "-", 3)
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	return true
}
